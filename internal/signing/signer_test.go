package signing_test

import (
	"errors"
	"testing"
	"time"

	"lectern/internal/services"
	"lectern/internal/signing"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	signer, err := signing.New("unit-test-secret", time.Minute)
	if err != nil {
		t.Fatalf("signing.New: %v", err)
	}

	token, err := signer.Sign("ws-42")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	got, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != "ws-42" {
		t.Fatalf("worksheet = %q, want ws-42", got)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	signer, err := signing.New("unit-test-secret", time.Minute)
	if err != nil {
		t.Fatalf("signing.New: %v", err)
	}
	signer.WithClock(func() time.Time { return now })

	token, err := signer.Sign("ws-42")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := signer.Verify(token); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for expired token, got %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	mint, _ := signing.New("secret-one", time.Minute)
	check, _ := signing.New("secret-two", time.Minute)

	token, err := mint.Sign("ws-42")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := check.Verify(token); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for wrong key, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	signer, _ := signing.New("unit-test-secret", time.Minute)
	for _, token := range []string{"", "   ", "not.a.jwt"} {
		if _, err := signer.Verify(token); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("token %q: expected validation error, got %v", token, err)
		}
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := signing.New("  ", time.Minute); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
