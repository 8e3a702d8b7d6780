package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// usersCommand creates the users command with subcommands.
func (c *CLI) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Work with users",
	}
	cmd.AddCommand(c.usersGetCommand())
	cmd.AddCommand(c.usersMeCommand())
	cmd.AddCommand(c.usersFollowersCommand())
	return cmd
}

func (c *CLI) usersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <login>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.api.Users.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(u)
			}
			c.render.Table([]string{"FIELD", "VALUE"}, [][]string{
				{"login", u.Login},
				{"name", u.Name},
				{"type", u.Type},
				{"followers", strconv.Itoa(u.Followers)},
				{"url", u.HTMLURL},
			})
			return nil
		},
	}
}

func (c *CLI) usersMeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.api.Users.Me(cmd.Context())
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(u)
			}
			c.render.Table([]string{"FIELD", "VALUE"}, [][]string{
				{"login", u.Login},
				{"name", u.Name},
				{"email", u.Email},
			})
			return nil
		},
	}
}

func (c *CLI) usersFollowersCommand() *cobra.Command {
	var maxPages int

	cmd := &cobra.Command{
		Use:   "followers <login>",
		Short: "List a user's followers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			followers, err := c.api.Users.ListFollowers(cmd.Context(), args[0], maxPages)
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(followers)
			}
			rows := make([][]string, 0, len(followers))
			for _, u := range followers {
				rows = append(rows, []string{u.Login, u.HTMLURL})
			}
			c.render.Table([]string{"LOGIN", "URL"}, rows)
			c.render.Detail("%d followers", len(followers))
			return nil
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages (0 = all)")
	return cmd
}
