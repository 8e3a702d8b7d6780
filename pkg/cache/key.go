package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies one cached response. Responses are keyed by path, query,
// and a fingerprint of the credential, so two tokens never share entries.
type Key struct {
	// Path is the endpoint path (e.g. "/repos/octocat/hello/pulls").
	Path string

	// Query holds the request's query parameters.
	Query url.Values

	// Credential is the raw credential the request was issued with.
	// Only a short hash of it appears in the key.
	Credential string
}

// String generates a deterministic cache key string.
//
// Format: ghclient:<path>:q1=v1:q2=v2:cred=<hash8>
func (k Key) String() string {
	parts := []string{"ghclient"}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	if len(k.Query) > 0 {
		keys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	if k.Credential != "" {
		parts = append(parts, "cred="+fingerprint(k.Credential))
	}

	return strings.Join(parts, ":")
}

// fingerprint returns the first 8 hex characters of the credential's
// SHA-256, enough to segregate entries without storing the token.
func fingerprint(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])[:8]
}
