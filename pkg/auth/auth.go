// Package auth resolves and injects API credentials. It never verifies a
// credential against the remote service: a bad token surfaces as a
// classified 401 on the first real request.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/oauth2"
)

// ErrNoCredential is returned when no credential can be resolved from the
// explicit argument, the config file, or the environment.
var ErrNoCredential = errors.New("no credential configured")

// EnvVars is the fixed priority list of environment variables consulted
// during resolution. The first non-empty one wins.
var EnvVars = []string{"GHCLIENT_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}

// minTokenLength is the shortest credential accepted by shape validation.
// Real tokens are far longer; the floor only catches obvious mistakes
// like pasting a placeholder.
const minTokenLength = 12

// Scheme selects the Authorization header format.
type Scheme string

const (
	// SchemeBearer emits "Bearer <token>" (the current convention).
	SchemeBearer Scheme = "Bearer"

	// SchemeToken emits "token <token>" (the legacy convention some
	// deployments still require).
	SchemeToken Scheme = "token"
)

// Provider yields the Authorization header value for outgoing requests.
type Provider interface {
	AuthHeader() (string, error)
}

// Resolve picks a credential with documented precedence: the explicit
// argument, then the config-file value, then the first non-empty entry of
// EnvVars. Returns ErrNoCredential when all three are empty.
func Resolve(explicit, fromFile string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if fromFile != "" {
		return fromFile, nil
	}
	for _, name := range EnvVars {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	return "", ErrNoCredential
}

// ValidateToken checks the credential's shape: non-empty, no embedded
// whitespace, and a minimum length. It does not call the remote service.
func ValidateToken(token string) error {
	if token == "" {
		return ErrNoCredential
	}
	if strings.IndexFunc(token, unicode.IsSpace) >= 0 {
		return fmt.Errorf("token contains whitespace")
	}
	if len(token) < minTokenLength {
		return fmt.Errorf("token too short (%d chars, need at least %d)", len(token), minTokenLength)
	}
	return nil
}

// TokenProvider injects a static personal access token.
type TokenProvider struct {
	token  string
	scheme Scheme
}

// NewTokenProvider validates the token shape and returns a provider using
// the given header scheme. An empty scheme defaults to Bearer.
func NewTokenProvider(token string, scheme Scheme) (*TokenProvider, error) {
	if err := ValidateToken(token); err != nil {
		return nil, err
	}
	if scheme == "" {
		scheme = SchemeBearer
	}
	return &TokenProvider{token: token, scheme: scheme}, nil
}

// AuthHeader implements Provider.
func (p *TokenProvider) AuthHeader() (string, error) {
	return string(p.scheme) + " " + p.token, nil
}

// Token returns the raw credential, used for cache key fingerprinting.
func (p *TokenProvider) Token() string {
	return p.token
}

// TokenSourceProvider adapts any oauth2.TokenSource (static, refreshing,
// device-flow) into a Provider.
type TokenSourceProvider struct {
	src oauth2.TokenSource
}

// NewTokenSourceProvider wraps an oauth2.TokenSource.
func NewTokenSourceProvider(src oauth2.TokenSource) *TokenSourceProvider {
	return &TokenSourceProvider{src: src}
}

// AuthHeader implements Provider by pulling a token from the source.
func (p *TokenSourceProvider) AuthHeader() (string, error) {
	tok, err := p.src.Token()
	if err != nil {
		return "", fmt.Errorf("token source: %w", err)
	}
	if tok.AccessToken == "" {
		return "", ErrNoCredential
	}
	return "Bearer " + tok.AccessToken, nil
}

// StaticTokenSource returns an oauth2.TokenSource that always yields the
// given token, handy for wiring the SDK into oauth2-based HTTP stacks.
func StaticTokenSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
}
