package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Location identifies one remote repository branch to read from.
// URL and Branch form the identity used for mirroring and caching;
// credentials are carried alongside but never participate in identity,
// so one warm mirror serves every caller that supplies working
// credentials for the same repository.
type Location struct {
	URL      string
	Branch   string
	Username string
	// Secret is either a password/token (HTTP transports) or private-key
	// material (SSH transports). The connection builder decides which by
	// inspecting the transport, not the caller.
	Secret string
}

// HasCredentials reports whether any credential material was supplied.
func (l Location) HasCredentials() bool {
	return l.Username != "" || l.Secret != ""
}

// Fingerprint returns a stable hex digest of (url, branch). It names the
// mirror directory and prefixes every cache key for this repository.
func (l Location) Fingerprint() string {
	sum := sha256.Sum256([]byte(l.URL + "\n" + l.Branch))
	return hex.EncodeToString(sum[:16])
}

// CacheKey returns the deterministic cache key for one operation against
// one path of this repository. The fingerprint prefix keeps every key of
// a repository enumerable, which is what makes blanket invalidation work.
func (l Location) CacheKey(operation, path string) string {
	return fmt.Sprintf("gitread:%s:%s:%s", l.Fingerprint(), operation, path)
}

// CacheKeyPrefix returns the prefix shared by every cache key of this
// repository branch.
func (l Location) CacheKeyPrefix() string {
	return "gitread:" + l.Fingerprint() + ":"
}

// String renders the location for logs, without credentials.
func (l Location) String() string {
	return l.URL + "@" + l.Branch
}
