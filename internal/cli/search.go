package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgekit/ghclient/pkg/github"
)

// searchCommand creates the search command with subcommands. Search
// endpoints run on their own quota bucket; ghctl limits shows both.
func (c *CLI) searchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search repositories, issues, and users",
	}
	cmd.AddCommand(c.searchReposCommand())
	cmd.AddCommand(c.searchIssuesCommand())
	cmd.AddCommand(c.searchUsersCommand())
	return cmd
}

func (c *CLI) searchReposCommand() *cobra.Command {
	var sort, order string
	var maxPages int

	cmd := &cobra.Command{
		Use:   "repos <query>...",
		Short: "Search repositories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := c.api.Search.Repositories(cmd.Context(), strings.Join(args, " "), github.SearchOptions{
				Sort:     sort,
				Order:    order,
				MaxPages: maxPages,
			})
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(repos)
			}
			rows := make([][]string, 0, len(repos))
			for _, r := range repos {
				rows = append(rows, []string{r.FullName, r.Language, strconv.Itoa(r.Stargazers)})
			}
			c.render.Table([]string{"NAME", "LANGUAGE", "STARS"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&sort, "sort", "", "sort by: stars, forks, updated")
	cmd.Flags().StringVar(&order, "order", "", "order: asc or desc")
	cmd.Flags().IntVar(&maxPages, "max-pages", 1, "stop after this many pages (0 = all)")
	return cmd
}

func (c *CLI) searchIssuesCommand() *cobra.Command {
	var sort, order string
	var maxPages int

	cmd := &cobra.Command{
		Use:   "issues <query>...",
		Short: "Search issues and pull requests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := c.api.Search.Issues(cmd.Context(), strings.Join(args, " "), github.SearchOptions{
				Sort:     sort,
				Order:    order,
				MaxPages: maxPages,
			})
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(issues)
			}
			rows := make([][]string, 0, len(issues))
			for _, i := range issues {
				rows = append(rows, []string{strconv.Itoa(i.Number), i.State, i.Title})
			}
			c.render.Table([]string{"NUMBER", "STATE", "TITLE"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&sort, "sort", "", "sort by: comments, created, updated")
	cmd.Flags().StringVar(&order, "order", "", "order: asc or desc")
	cmd.Flags().IntVar(&maxPages, "max-pages", 1, "stop after this many pages (0 = all)")
	return cmd
}

func (c *CLI) searchUsersCommand() *cobra.Command {
	var maxPages int

	cmd := &cobra.Command{
		Use:   "users <query>...",
		Short: "Search users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := c.api.Search.Users(cmd.Context(), strings.Join(args, " "), github.SearchOptions{
				MaxPages: maxPages,
			})
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(users)
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.Login, u.HTMLURL})
			}
			c.render.Table([]string{"LOGIN", "URL"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", 1, "stop after this many pages (0 = all)")
	return cmd
}
