package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"lectern/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("file missing")
	err := services.Wrap(services.ErrNotFound, "protect", "resolve", "asset lookup", base)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected wrapped error to match ErrNotFound, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to retain cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "protect: resolve: asset lookup") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected generic detail, got %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", services.Wrap(services.ErrValidation, "server", "decode", "", nil), http.StatusBadRequest},
		{"not found", services.Wrap(services.ErrNotFound, "protect", "resolve", "", nil), http.StatusNotFound},
		{"integrity", services.Wrap(services.ErrIntegrity, "protect", "decrypt", "", nil), http.StatusUnprocessableEntity},
		{"network", services.Wrap(services.ErrNetwork, "client", "fetch", "", nil), http.StatusBadGateway},
		{"configuration", services.Wrap(services.ErrConfiguration, "protect", "key", "", nil), http.StatusInternalServerError},
		{"untagged", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.HTTPStatus(tc.err); got != tc.status {
				t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.status)
			}
		})
	}
}

func TestRecoverable(t *testing.T) {
	if services.Recoverable(services.Wrap(services.ErrIntegrity, "", "", "", nil)) {
		t.Fatal("integrity failures must not be recoverable")
	}
	if services.Recoverable(services.Wrap(services.ErrConfiguration, "", "", "", nil)) {
		t.Fatal("configuration failures must not be recoverable")
	}
	if !services.Recoverable(services.Wrap(services.ErrPlayback, "", "", "", nil)) {
		t.Fatal("playback failures are recoverable")
	}
}
