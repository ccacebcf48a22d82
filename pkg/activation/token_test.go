package activation

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestGenerator_New(t *testing.T) {
	t.Parallel()

	g := NewGenerator(0)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := g.New()
		if err != nil {
			t.Fatalf("New error: %v", err)
		}
		raw, err := base64.RawURLEncoding.DecodeString(tok)
		if err != nil {
			t.Fatalf("token %q is not URL-safe base64: %v", tok, err)
		}
		if len(raw) != tokenBytes {
			t.Fatalf("token entropy: got %d bytes want %d", len(raw), tokenBytes)
		}
		if seen[tok] {
			t.Fatalf("duplicate token generated: %q", tok)
		}
		seen[tok] = true
	}
}

func TestGenerator_ExpiryFrom(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	g := NewGenerator(0)
	if got := g.ExpiryFrom(now); !got.Equal(now.Add(DefaultTTL)) {
		t.Fatalf("default expiry: got %v", got)
	}

	g = NewGenerator(time.Hour)
	if got := g.ExpiryFrom(now); !got.Equal(now.Add(time.Hour)) {
		t.Fatalf("custom expiry: got %v", got)
	}
}
