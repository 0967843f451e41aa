package utils

import (
	"regexp"
	"testing"
	"time"
)

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager("secret", "password_reset")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := m.Issue("42", "hash-v1", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	v, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if v.Subject != "42" {
		t.Fatalf("expected subject, got %q", v.Subject)
	}
	if err := m.Bound(v, "hash-v1"); err != nil {
		t.Fatalf("expected binding to hold: %v", err)
	}
	if err := m.Bound(v, "hash-v2"); err != ErrTokenBinding {
		t.Fatalf("expected ErrTokenBinding, got %v", err)
	}
}

func TestManagerRejects(t *testing.T) {
	reset, _ := NewManager("a", "password_reset")
	foreign, _ := NewManager("b", "password_reset")
	other, _ := NewManager("a", "email_confirm")

	valid, _ := reset.Issue("x", "", time.Minute)
	expired, _ := reset.Issue("x", "", -time.Minute)

	cases := []struct {
		name  string
		m     *Manager
		token string
	}{
		{"foreign key", foreign, valid},
		{"other purpose", other, valid},
		{"expired", reset, expired},
		{"garbage", reset, "not-a-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.m.Verify(tc.token); err == nil {
				t.Fatal("expected verification error")
			}
		})
	}
}

func TestNewManagerArguments(t *testing.T) {
	if _, err := NewManager("", "password_reset"); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := NewManager("k", ""); err == nil {
		t.Fatal("expected error for empty purpose")
	}
}

func TestRefreshTokenShape(t *testing.T) {
	m, _ := NewManager("secret", "password_reset")
	tok, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(tok) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(tok))
	}
}

func TestRefreshTokensIndependentAcrossManagers(t *testing.T) {
	a, _ := NewManager("secret", "password_reset")
	b, _ := NewManager("secret", "password_reset")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		for _, m := range []*Manager{a, b} {
			tok, err := m.NewRefreshToken()
			if err != nil {
				t.Fatalf("refresh: %v", err)
			}
			if seen[tok] {
				t.Fatalf("refresh token repeated after %d rounds", i)
			}
			seen[tok] = true
		}
	}
}

func TestProvisionalID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewProvisionalID(now)
	if !regexp.MustCompile(`^posted_1700000000123_[0-9a-z]{9}$`).MatchString(id) {
		t.Fatalf("unexpected id %q", id)
	}
	if !IsProvisionalID(id) {
		t.Fatal("expected provisional")
	}
	if IsProvisionalID(NewCanonicalID()) {
		t.Fatal("uuid reported as provisional")
	}
}

func TestDecodeDataURL(t *testing.T) {
	data, ext, err := DecodeDataURL("data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(data) != "hello" || ext != ".png" {
		t.Fatalf("got %q %q", data, ext)
	}
	if _, _, err := DecodeDataURL("https://example.com/logo.png"); err == nil {
		t.Fatal("expected error for plain url")
	}
}

func TestObjectURL(t *testing.T) {
	u := &S3Uploader{cfg: S3Config{Bucket: "jobs", Endpoint: "https://object.example.io"}}
	if got := u.objectURL("logos/a.png"); got != "https://jobs.object.example.io/logos/a.png" {
		t.Fatalf("unexpected url %q", got)
	}
	u.cfg.PublicURL = "https://cdn.example.com/"
	if got := u.objectURL("logos/a.png"); got != "https://cdn.example.com/logos/a.png" {
		t.Fatalf("unexpected url %q", got)
	}
}
