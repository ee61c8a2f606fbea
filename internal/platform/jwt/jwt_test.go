package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("secret", "test-issuer")
	token, err := m.Generate("alice", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ParticipantID() != "alice" {
		t.Fatalf("expected alice, got %q", claims.ParticipantID())
	}
}

func TestParseRejectsForeignTokens(t *testing.T) {
	m := NewManager("secret", "test-issuer")

	other, _ := NewManager("other-secret", "test-issuer").Generate("alice", time.Hour)
	if _, err := m.Parse(other); err == nil {
		t.Fatalf("expected signature error")
	}

	wrongIssuer, _ := NewManager("secret", "someone-else").Generate("alice", time.Hour)
	if _, err := m.Parse(wrongIssuer); !errors.Is(err, jwt.ErrTokenInvalidIssuer) {
		t.Fatalf("expected invalid issuer, got %v", err)
	}

	expired := NewManager("secret", "test-issuer")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _ := expired.Generate("alice", time.Hour)
	if _, err := m.Parse(stale); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}

	if _, err := m.Generate("", time.Hour); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("expected missing subject, got %v", err)
	}
}
