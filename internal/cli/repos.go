package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgekit/ghclient/pkg/github"
)

// reposCommand creates the repos command with subcommands.
func (c *CLI) reposCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Work with repositories",
	}
	cmd.AddCommand(c.reposListCommand())
	cmd.AddCommand(c.reposGetCommand())
	cmd.AddCommand(c.reposCreateCommand())
	cmd.AddCommand(c.reposDeleteCommand())
	return cmd
}

func (c *CLI) reposListCommand() *cobra.Command {
	var user, org, sort string
	var maxPages int

	cmd := &cobra.Command{
		Use:   "list [user]",
		Short: "List repositories (for the authenticated user when no user is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				user = args[0]
			}
			if org != "" && user != "" {
				return fmt.Errorf("cannot combine --org %s with user %s", org, user)
			}
			opt := github.RepositoryListOptions{
				Sort:     sort,
				MaxPages: maxPages,
			}
			var repos []github.Repository
			var err error
			if org != "" {
				repos, err = c.api.Repositories.ListByOrg(cmd.Context(), org, opt)
			} else {
				repos, err = c.api.Repositories.List(cmd.Context(), user, opt)
			}
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(repos)
			}
			rows := make([][]string, 0, len(repos))
			for _, r := range repos {
				visibility := "public"
				if r.Private {
					visibility = "private"
				}
				rows = append(rows, []string{r.FullName, visibility, r.Language, strconv.Itoa(r.Stargazers)})
			}
			c.render.Table([]string{"NAME", "VISIBILITY", "LANGUAGE", "STARS"}, rows)
			c.render.Detail("%d repositories", len(repos))
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "org", "", "list an organization's repositories instead")
	cmd.Flags().StringVar(&sort, "sort", "", "sort by: created, updated, pushed, full_name")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages (0 = all)")
	return cmd
}

func (c *CLI) reposGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <owner>/<repo>",
		Short: "Show a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			r, err := c.api.Repositories.Get(cmd.Context(), owner, repo)
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(r)
			}
			c.render.Table([]string{"FIELD", "VALUE"}, [][]string{
				{"name", r.FullName},
				{"description", r.Description},
				{"default branch", r.DefaultBranch},
				{"stars", strconv.Itoa(r.Stargazers)},
				{"open issues", strconv.Itoa(r.OpenIssues)},
				{"topics", strings.Join(r.Topics, ", ")},
				{"url", r.HTMLURL},
			})
			return nil
		},
	}
}

func (c *CLI) reposCreateCommand() *cobra.Command {
	var in github.NewRepository

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a repository for the authenticated user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			r, err := c.api.Repositories.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s\n", r.FullName, r.HTMLURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Description, "description", "", "repository description")
	cmd.Flags().BoolVar(&in.Private, "private", false, "create as private")
	cmd.Flags().BoolVar(&in.AutoInit, "init", false, "initialize with an empty commit")
	return cmd
}

func (c *CLI) reposDeleteCommand() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "delete <owner>/<repo>",
		Short: "Delete a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to delete %s without --yes", args[0])
			}
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			if err := c.api.Repositories.Delete(cmd.Context(), owner, repo); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the deletion")
	return cmd
}

// splitRepo parses "owner/repo" into its parts.
func splitRepo(full string) (owner, repo string, err error) {
	parts := strings.Split(full, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected <owner>/<repo>, got %q", full)
	}
	return parts[0], parts[1], nil
}
