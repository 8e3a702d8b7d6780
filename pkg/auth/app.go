package auth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// appJWTLifetime is the validity window of a minted app JWT. The API caps
// it at ten minutes.
const appJWTLifetime = 10 * time.Minute

// appJWTBackdate compensates for clock drift between us and the API by
// backdating the issued-at claim.
const appJWTBackdate = 60 * time.Second

// AppProvider authenticates as a GitHub App by minting short-lived RS256
// JWTs signed with the app's private key. Each AuthHeader call mints a
// fresh token; no caching, the signing cost is negligible next to the
// request itself.
type AppProvider struct {
	appID string
	key   *rsa.PrivateKey

	// now is swappable for tests.
	now func() time.Time
}

// NewAppProvider parses the PEM-encoded RSA private key and returns a
// provider for the given app ID.
func NewAppProvider(appID string, pemKey []byte) (*AppProvider, error) {
	if appID == "" {
		return nil, fmt.Errorf("app ID is required")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemKey)
	if err != nil {
		return nil, fmt.Errorf("parse app private key: %w", err)
	}
	return &AppProvider{appID: appID, key: key, now: time.Now}, nil
}

// AuthHeader implements Provider by signing a fresh app JWT.
func (p *AppProvider) AuthHeader() (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		Issuer:    p.appID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-appJWTBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("sign app JWT: %w", err)
	}
	return "Bearer " + signed, nil
}
