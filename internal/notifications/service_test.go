package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lectern/internal/config"
	"lectern/internal/notifications"
	"lectern/internal/services"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyAssetAccessed(context.Background(), "ws-1", "user-1"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		publish        func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "asset accessed",
			publish: func(svc notifications.Service) error {
				return svc.NotifyAssetAccessed(context.Background(), "ws-7", "teacher-3")
			},
			expectTitle:   "Lectern - Asset Accessed",
			expectMessage: "Protected asset delivered: ws-7 (requested by teacher-3)",
			expectTags:    "lectern,asset,accessed",
		},
		{
			name: "asset accessed anonymously",
			publish: func(svc notifications.Service) error {
				return svc.NotifyAssetAccessed(context.Background(), "ws-7", "  ")
			},
			expectTitle:   "Lectern - Asset Accessed",
			expectMessage: "Protected asset delivered: ws-7 (requested by anonymous)",
			expectTags:    "lectern,asset,accessed",
		},
		{
			name: "integrity failure",
			publish: func(svc notifications.Service) error {
				return svc.NotifyIntegrityFailure(context.Background(), "ws-7", "ciphertext tag mismatch")
			},
			expectTitle:    "Lectern - Integrity Failure",
			expectMessage:  "Integrity check failed for ws-7: ciphertext tag mismatch",
			expectTags:     "lectern,integrity,alert",
			expectPriority: "high",
		},
		{
			name: "playback error",
			publish: func(svc notifications.Service) error {
				return svc.NotifyPlaybackError(context.Background(), "ws-7", errors.New("narration unavailable"))
			},
			expectTitle:   "Lectern - Playback Error",
			expectMessage: "Narration playback failed on ws-7: narration unavailable",
			expectTags:    "lectern,playback,error",
		},
		{
			name: "daemon started",
			publish: func(svc notifications.Service) error {
				return svc.NotifyDaemonStarted(context.Background(), "127.0.0.1:7823")
			},
			expectTitle:   "Lectern - Started",
			expectMessage: "Daemon listening on 127.0.0.1:7823",
			expectTags:    "lectern,daemon,started",
		},
		{
			name: "error",
			publish: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("disk full"), "preflight")
			},
			expectTitle:    "Lectern - Error",
			expectMessage:  "Error with preflight: disk full",
			expectTags:     "lectern,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5
			cfg.Notifications.Access = true
			cfg.Notifications.Errors = true

			svc := notifications.NewService(&cfg)
			if err := tc.publish(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceSuppressesDisabledEventClasses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Access = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	if err := svc.NotifyAssetAccessed(ctx, "ws-1", "user"); err != nil {
		t.Fatalf("suppressed access event returned error: %v", err)
	}
	if err := svc.NotifyIntegrityFailure(ctx, "ws-1", "detail"); err != nil {
		t.Fatalf("suppressed integrity event returned error: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "test"); err != nil {
		t.Fatalf("suppressed error event returned error: %v", err)
	}
}

func TestNtfyServiceReportsServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error for non-2xx ntfy response")
	}
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestNtfyServiceReportsUnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	err := svc.TestNotification(context.Background())
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}
