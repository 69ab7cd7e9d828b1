package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCapabilityRequiresAccount(t *testing.T) {
	if _, err := NewCapability("", "token"); !errors.Is(err, ErrMissingAccount) {
		t.Fatalf("expected ErrMissingAccount, got %v", err)
	}
	if _, err := NewCapability("AC1", ""); !errors.Is(err, ErrMissingAccount) {
		t.Fatalf("expected ErrMissingAccount, got %v", err)
	}
}

func TestCapabilityRequiresScope(t *testing.T) {
	c, err := NewCapability("AC1", "secret")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := c.Token(time.Now(), 0); !errors.Is(err, ErrNoScopes) {
		t.Fatalf("expected ErrNoScopes, got %v", err)
	}
}

func TestCapabilityRoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	c, err := NewCapability("AC1234567890", "secret")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.AllowClientIncoming("alice").AllowClientOutgoing("AP999", nil)

	signed, err := c.Token(now, 30*time.Minute)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	parsed, err := Parse(signed, "secret", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.AccountSID != "AC1234567890" {
		t.Fatalf("account = %q", parsed.AccountSID)
	}
	if len(parsed.Scopes) != 2 {
		t.Fatalf("scopes = %v", parsed.Scopes)
	}
	if parsed.Scopes[0] != "scope:client:incoming?clientName=alice" {
		t.Fatalf("incoming scope = %q", parsed.Scopes[0])
	}
	if !strings.HasPrefix(parsed.Scopes[1], "scope:client:outgoing?") ||
		!strings.Contains(parsed.Scopes[1], "appSid=AP999") {
		t.Fatalf("outgoing scope = %q", parsed.Scopes[1])
	}
	if !parsed.ExpiresAt.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("expiry = %v", parsed.ExpiresAt)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	c, _ := NewCapability("AC1", "secret")
	c.AllowClientIncoming("alice")
	signed, err := c.Token(now, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if _, err := Parse(signed, "other", now); err == nil {
		t.Fatalf("expected signature rejection")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	c, _ := NewCapability("AC1", "secret")
	c.AllowClientIncoming("alice")
	signed, err := c.Token(now, time.Minute)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if _, err := Parse(signed, "secret", now.Add(2*time.Hour)); err == nil {
		t.Fatalf("expected expiry rejection")
	}
}
