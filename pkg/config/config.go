// Package config loads the CLI configuration file and resolves settings
// with documented precedence: explicit flag > environment > file > default.
// Resolution happens once at startup, not per call.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Env var names consulted during resolution (the token env list lives in
// pkg/auth).
const (
	EnvBaseURL = "GHCLIENT_BASE_URL"
	EnvOutput  = "GHCLIENT_OUTPUT"
)

// Defaults applied when nothing else is configured.
const (
	DefaultBaseURL = "https://api.github.com"
	DefaultOutput  = "table"
)

// File is the on-disk configuration shape.
type File struct {
	// Token is the API credential.
	Token string `toml:"token"`

	// BaseURL overrides the API root (for GitHub Enterprise installs).
	BaseURL string `toml:"base_url"`

	// Output is the default output format ("table" or "json").
	Output string `toml:"output"`

	// NoColor disables colored output.
	NoColor bool `toml:"no_color"`
}

// DefaultPath returns the conventional config file location,
// ~/.config/ghctl/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ghctl", "config.toml")
}

// Load reads the config file at path. A missing file is not an error and
// yields a zero-valued File; a present but malformed file is an error.
func Load(path string) (*File, error) {
	var f File
	if path == "" {
		return &f, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &f, nil
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Flags carries the explicit command line values into resolution. Zero
// values mean "not set".
type Flags struct {
	Token   string
	BaseURL string
	Output  string
	NoColor bool
}

// Settings is the fully resolved configuration.
type Settings struct {
	Token   string
	BaseURL string
	Output  string
	NoColor bool
}

// Resolve merges flags, environment, and file into final settings.
func Resolve(flags Flags, file *File) Settings {
	if file == nil {
		file = &File{}
	}
	return Settings{
		Token:   flags.Token, // empty falls through to auth.Resolve with file.Token
		BaseURL: pick(flags.BaseURL, os.Getenv(EnvBaseURL), file.BaseURL, DefaultBaseURL),
		Output:  pick(flags.Output, os.Getenv(EnvOutput), file.Output, DefaultOutput),
		NoColor: flags.NoColor || file.NoColor,
	}
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
