package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/mkragh/socialapi/internal/common"
)

func newTestManager(t *testing.T, ttl, leeway time.Duration) *Manager {
	t.Helper()
	m, err := NewManager([]byte("super-secret"), "socialapi", "socialapi-clients", ttl, leeway)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return m
}

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour, 0)

	tok, expiresAt, err := m.Issue("user-123", "alice@example.com", []string{"user", "moderator"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute {
		t.Fatalf("expiry too close: %v", remaining)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject mismatch: got %q", claims.Subject)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("email mismatch: got %q", claims.Email)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "user" {
		t.Fatalf("roles mismatch: got %v", claims.Roles)
	}
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, -1*time.Second, 0)

	tok, _, err := m.Issue("u1", "u1@example.com", nil)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = m.Parse(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParse_LeewayAbsorbsSkew(t *testing.T) {
	t.Parallel()

	// Token expired one second ago: rejected without leeway, accepted with a
	// 120-second clock-skew allowance.
	strict := newTestManager(t, -1*time.Second, 0)
	tok, _, err := strict.Issue("u1", "u1@example.com", nil)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := strict.Parse(tok); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected expiry rejection without leeway, got %v", err)
	}

	lenient := newTestManager(t, 0, 120*time.Second)
	if _, err := lenient.Parse(tok); err != nil {
		t.Fatalf("expected leeway to absorb 1s of skew, got %v", err)
	}
}

func TestParse_WrongKey(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour, 0)
	tok, _, err := m.Issue("u2", "u2@example.com", nil)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other, err := NewManager([]byte("other-secret"), "socialapi", "socialapi-clients", time.Hour, 0)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	if _, err := other.Parse(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestParse_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour, 0)
	tok, _, err := m.Issue("u3", "u3@example.com", nil)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	wrongIssuer, _ := NewManager([]byte("super-secret"), "someone-else", "socialapi-clients", time.Hour, 0)
	if _, err := wrongIssuer.Parse(tok); err == nil {
		t.Fatalf("expected issuer mismatch error")
	}

	wrongAudience, _ := NewManager([]byte("super-secret"), "socialapi", "other-clients", time.Hour, 0)
	if _, err := wrongAudience.Parse(tok); err == nil {
		t.Fatalf("expected audience mismatch error")
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour, 0)
	if _, err := m.Parse("not.a.jwt"); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestNewManager_MissingKey(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(nil, "i", "a", time.Hour, 0); !errors.Is(err, common.ErrInternal) {
		t.Fatalf("expected common.ErrInternal for missing key, got %v", err)
	}
}
