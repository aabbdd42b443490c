package auth

import (
	"errors"
	"testing"
	"time"

	"taskly/internal/domain"
)

var tokenUser = &domain.User{
	ID:       "6f1d2b3c-0000-0000-0000-000000000001",
	Username: "alice",
	Email:    "alice@x.com",
}

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", "taskly", "taskly-clients", time.Hour)
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := testIssuer()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	raw, expiresAt, err := issuer.Issue(tokenUser, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := now.Add(time.Hour); !expiresAt.Equal(want) {
		t.Fatalf("expiresAt=%v want %v", expiresAt, want)
	}

	claims, err := issuer.Verify(raw, now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != tokenUser.ID {
		t.Fatalf("subject=%q want %q", claims.Subject, tokenUser.ID)
	}
	if claims.Username != "alice" || claims.Email != "alice@x.com" {
		t.Fatalf("claims=%+v", claims)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := testIssuer()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	raw, _, err := issuer.Issue(tokenUser, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Verify(raw, now.Add(61*time.Minute)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_NotYetValid(t *testing.T) {
	issuer := testIssuer()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	raw, _, err := issuer.Issue(tokenUser, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Verify(raw, now.Add(-time.Minute)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_WrongKeyOrAudience(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	raw, _, err := testIssuer().Issue(tokenUser, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	otherSecret := NewTokenIssuer("other-secret", "taskly", "taskly-clients", time.Hour)
	if _, err := otherSecret.Verify(raw, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: expected ErrInvalidToken, got %v", err)
	}

	otherAudience := NewTokenIssuer("test-secret", "taskly", "someone-else", time.Hour)
	if _, err := otherAudience.Verify(raw, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong audience: expected ErrInvalidToken, got %v", err)
	}

	otherIssuer := NewTokenIssuer("test-secret", "not-taskly", "taskly-clients", time.Hour)
	if _, err := otherIssuer.Verify(raw, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong issuer: expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := testIssuer()
	now := time.Now().UTC()

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := issuer.Verify(raw, now); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", raw, err)
		}
	}
}
