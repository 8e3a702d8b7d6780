// Package cli implements the ghctl command tree. Commands map 1:1 onto
// REST resources and delegate all request mechanics to the SDK; this
// layer only parses arguments and renders results.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgekit/ghclient/pkg/auth"
	"github.com/forgekit/ghclient/pkg/client"
	"github.com/forgekit/ghclient/pkg/config"
	"github.com/forgekit/ghclient/pkg/github"
	"github.com/forgekit/ghclient/pkg/logging"
)

var (
	version = "dev"
	commit  = ""
)

// SetVersion sets the version information displayed by --version,
// typically injected via ldflags at build time.
func SetVersion(v, c string) {
	version = v
	commit = c
}

// CLI carries the resolved configuration and lazily built API bundle
// shared by all commands.
type CLI struct {
	flags    config.Flags
	cfgPath  string
	noWait   bool
	verbose  bool
	settings config.Settings
	render   *renderer
	client   *client.Client
	api      *github.API
}

// Execute runs the ghctl CLI. It returns an error when any command fails;
// main maps that to exit code 1 after the error has been rendered.
func Execute(ctx context.Context) error {
	c := &CLI{}

	root := &cobra.Command{
		Use:           "ghctl",
		Short:         "ghctl is a CLI for the GitHub REST API",
		Long:          "ghctl wraps the GitHub REST API with rate-limit aware, retrying requests.\nCommands map directly onto API resources.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	if commit != "" {
		root.SetVersionTemplate(fmt.Sprintf("ghctl %s (%s)\n", version, commit))
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.Token, "token", "", "API token (overrides config file and environment)")
	pf.StringVar(&c.flags.BaseURL, "base-url", "", "API base URL (for GitHub Enterprise)")
	pf.StringVarP(&c.flags.Output, "output", "o", "", "output format: table or json")
	pf.BoolVar(&c.flags.NoColor, "no-color", false, "disable colored output")
	pf.StringVar(&c.cfgPath, "config", "", "config file path (default ~/.config/ghctl/config.toml)")
	pf.BoolVar(&c.noWait, "no-wait", false, "fail instead of waiting when the rate limit is exhausted")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.pullsCommand())
	root.AddCommand(c.reposCommand())
	root.AddCommand(c.usersCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.limitsCommand())

	err := root.ExecuteContext(ctx)
	if err != nil && c.render != nil {
		fmt.Fprintln(os.Stderr, c.render.RenderError(err))
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}

// setup resolves configuration and builds the API bundle once per
// invocation.
func (c *CLI) setup() error {
	level := logging.LevelWarn
	if c.verbose {
		level = logging.LevelDebug
	}
	logging.Setup(logging.Config{Level: level, Pretty: true})

	path := c.cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	file, err := config.Load(path)
	if err != nil {
		return err
	}
	c.settings = config.Resolve(c.flags, file)
	c.render = &renderer{out: os.Stdout, noColor: c.settings.NoColor}

	var provider auth.Provider
	token, err := auth.Resolve(c.flags.Token, file.Token)
	switch {
	case err == nil:
		p, perr := auth.NewTokenProvider(token, auth.SchemeBearer)
		if perr != nil {
			return fmt.Errorf("invalid token: %w", perr)
		}
		provider = p
	case errors.Is(err, auth.ErrNoCredential):
		// Unauthenticated requests still work against public endpoints,
		// with a far smaller quota.
	default:
		return err
	}

	cfg := client.DefaultConfig(provider)
	cfg.BaseURL = c.settings.BaseURL
	cfg.NoWait = c.noWait
	cfg.UserAgent = "ghctl/" + version

	cl, err := client.New(cfg)
	if err != nil {
		return err
	}
	c.client = cl
	c.api = github.New(cl)
	return nil
}
