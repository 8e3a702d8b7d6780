package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forgekit/ghclient/pkg/github"
)

// pullsCommand creates the pulls command with subcommands.
func (c *CLI) pullsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pulls",
		Short: "Work with pull requests",
	}
	cmd.AddCommand(c.pullsListCommand())
	cmd.AddCommand(c.pullsGetCommand())
	cmd.AddCommand(c.pullsCreateCommand())
	cmd.AddCommand(c.pullsMergeCommand())
	return cmd
}

func (c *CLI) pullsListCommand() *cobra.Command {
	var state string
	var maxPages int

	cmd := &cobra.Command{
		Use:   "list <owner> <repo>",
		Short: "List pull requests",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pulls, err := c.api.PullRequests.List(cmd.Context(), args[0], args[1], github.PullRequestListOptions{
				State:    state,
				MaxPages: maxPages,
			})
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(pulls)
			}
			rows := make([][]string, 0, len(pulls))
			for _, pr := range pulls {
				author := ""
				if pr.User != nil {
					author = pr.User.Login
				}
				rows = append(rows, []string{
					strconv.Itoa(pr.Number), pr.State, pr.Title, author,
				})
			}
			c.render.Table([]string{"NUMBER", "STATE", "TITLE", "AUTHOR"}, rows)
			c.render.Detail("%d pull requests", len(pulls))
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "open", "filter by state: open, closed, all")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages (0 = all)")
	return cmd
}

func (c *CLI) pullsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <owner> <repo> <number>",
		Short: "Show a pull request",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid pull request number %q", args[2])
			}
			pr, err := c.api.PullRequests.Get(cmd.Context(), args[0], args[1], number)
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(pr)
			}
			c.render.Table([]string{"FIELD", "VALUE"}, [][]string{
				{"number", strconv.Itoa(pr.Number)},
				{"state", pr.State},
				{"title", pr.Title},
				{"draft", strconv.FormatBool(pr.Draft)},
				{"url", pr.HTMLURL},
			})
			return nil
		},
	}
}

func (c *CLI) pullsCreateCommand() *cobra.Command {
	var in github.NewPullRequest

	cmd := &cobra.Command{
		Use:   "create <owner> <repo>",
		Short: "Open a pull request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pr, err := c.api.PullRequests.Create(cmd.Context(), args[0], args[1], in)
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(pr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created pull request #%d: %s\n", pr.Number, pr.HTMLURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "pull request title")
	cmd.Flags().StringVar(&in.Head, "head", "", "branch with the changes")
	cmd.Flags().StringVar(&in.Base, "base", "", "branch to merge into")
	cmd.Flags().StringVar(&in.Body, "body", "", "pull request description")
	cmd.Flags().BoolVar(&in.Draft, "draft", false, "open as draft")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("head")
	cmd.MarkFlagRequired("base")
	return cmd
}

func (c *CLI) pullsMergeCommand() *cobra.Command {
	var opt github.MergeOptions

	cmd := &cobra.Command{
		Use:   "merge <owner> <repo> <number>",
		Short: "Merge a pull request",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid pull request number %q", args[2])
			}
			result, err := c.api.PullRequests.Merge(cmd.Context(), args[0], args[1], number, opt)
			if err != nil {
				return err
			}
			if c.settings.Output == "json" {
				return c.render.JSON(result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged: %s (%s)\n", result.Message, result.SHA)
			return nil
		},
	}
	cmd.Flags().StringVar(&opt.MergeMethod, "method", "merge", "merge method: merge, squash, rebase")
	cmd.Flags().StringVar(&opt.CommitTitle, "commit-title", "", "title for the merge commit")
	return cmd
}
