package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValue_RedactsSensitiveKeys(t *testing.T) {
	cases := []struct {
		key string
		val string
	}{
		{"access_token", "eyJhbGciOiJIUzI1NiJ9.payload.sig"},
		{"password", "hunter22"},
		{"email", "kate@example.com"},
		{"portal_url", "https://portal.example.com/abc"},
		{"refresh_token", "rt-123"},
		{"api_key", "key-456"},
	}
	for _, tc := range cases {
		if got := sanitizeValue(tc.key, tc.val); got != "[REDACTED]" {
			t.Fatalf("sanitizeValue(%q): want=[REDACTED] got=%v", tc.key, got)
		}
	}
}

func TestSanitizeValue_HashesUserIDs(t *testing.T) {
	got := sanitizeValue("user_id", "7a0e8f9a-1111-2222-3333-444455556666")
	s, ok := got.(string)
	if !ok || !strings.HasPrefix(s, "hash:") {
		t.Fatalf("expected hashed value, got %v", got)
	}
	if strings.Contains(s, "7a0e8f9a") {
		t.Fatalf("raw id leaked: %q", s)
	}
	// stable within a process
	again := sanitizeValue("user_id", "7a0e8f9a-1111-2222-3333-444455556666")
	if again != got {
		t.Fatalf("hash not stable: %v vs %v", got, again)
	}
}

func TestSanitizeValue_LeavesOrdinaryKeysAlone(t *testing.T) {
	if got := sanitizeValue("list_id", "abc-123"); got != "abc-123" {
		t.Fatalf("ordinary value changed: %v", got)
	}
	if got := sanitizeValue("count", 42); got != 42 {
		t.Fatalf("non-string value changed: %v", got)
	}
}

func TestSanitizeValue_CatchesJWTShapedStrings(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	if got := sanitizeValue("some_field", jwt); got != "[REDACTED]" {
		t.Fatalf("jwt-shaped value not redacted: %v", got)
	}
	if got := sanitizeValue("some_field", "just.two"); got != "just.two" {
		t.Fatalf("ordinary dotted string redacted: %v", got)
	}
}

func TestLooksLikeJWT(t *testing.T) {
	if looksLikeJWT("a.b.c") {
		t.Fatalf("short segments should not match")
	}
	if looksLikeJWT("") {
		t.Fatalf("empty string should not match")
	}
	if !looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjMifQ.sig") {
		t.Fatalf("jwt shape should match")
	}
}
