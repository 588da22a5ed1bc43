package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret-at-least-32-bytes-long", time.Hour)

	token, err := m.Generate("owner-42")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.OwnerID != "owner-42" {
		t.Errorf("OwnerID = %q, want %q", claims.OwnerID, "owner-42")
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	m := NewManager("test-secret-at-least-32-bytes-long", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("a-completely-different-secret-key!!", time.Hour)
		token, err := other.Generate("owner-42")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		short := NewManager("test-secret-at-least-32-bytes-long", -time.Minute)
		token, err := short.Generate("owner-42")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
