package links

import (
	"strings"
	"testing"
)

func TestNewToken_URLSafe(t *testing.T) {
	tok, err := NewToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tok) < 40 {
		t.Fatalf("token too short: %d", len(tok))
	}
	if strings.ContainsAny(tok, "+/=?&# ") {
		t.Fatalf("token not URL-safe: %q", tok)
	}
}

func TestNewToken_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token generated")
		}
		seen[tok] = true
	}
}
