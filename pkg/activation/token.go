package activation

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// DefaultTTL is the activation token validity window.
const DefaultTTL = 24 * time.Hour

// tokenBytes gives 256 bits of entropy, comfortably above the 128-bit
// floor for resisting guessing within the validity window.
const tokenBytes = 32

// Generator produces unguessable, time-limited activation tokens.
type Generator struct {
	TTL time.Duration
}

func NewGenerator(ttl time.Duration) *Generator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Generator{TTL: ttl}
}

// New draws tokenBytes from crypto/rand and encodes them as an opaque
// URL-safe string.
func (g *Generator) New() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ExpiryFrom returns the expiry for a token issued at now.
func (g *Generator) ExpiryFrom(now time.Time) time.Time {
	return now.Add(g.TTL)
}
