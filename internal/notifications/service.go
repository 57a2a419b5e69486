package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"lectern/internal/config"
	"lectern/internal/services"
)

// isClientTimeout matches http.Client deadline expiry, which surfaces as a
// url.Error wrapping a net.Error with Timeout() true rather than
// context.DeadlineExceeded.
func isClientTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

const userAgent = "Lectern-Go/0.1.0"

// Service defines the notification surface exposed to the daemon and the
// content handlers.
type Service interface {
	NotifyAssetAccessed(ctx context.Context, worksheetID, requester string) error
	NotifyIntegrityFailure(ctx context.Context, worksheetID, detail string) error
	NotifyPlaybackError(ctx context.Context, worksheetID string, err error) error
	NotifyDaemonStarted(ctx context.Context, bind string) error
	NotifyDaemonStopped(ctx context.Context, uptime time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		accessEvents: cfg.Notifications.Access,
		errorEvents:  cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	accessEvents bool
	errorEvents  bool
}

func (n *ntfyService) NotifyAssetAccessed(ctx context.Context, worksheetID, requester string) error {
	if !n.accessEvents {
		return nil
	}
	worksheetID = strings.TrimSpace(worksheetID)
	requester = strings.TrimSpace(requester)
	if requester == "" {
		requester = "anonymous"
	}
	data := payload{
		title:   "Lectern - Asset Accessed",
		message: fmt.Sprintf("Protected asset delivered: %s (requested by %s)", worksheetID, requester),
		tags:    []string{"lectern", "asset", "accessed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyIntegrityFailure(ctx context.Context, worksheetID, detail string) error {
	if !n.errorEvents {
		return nil
	}
	worksheetID = strings.TrimSpace(worksheetID)
	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = "payload failed authentication"
	}
	data := payload{
		title:    "Lectern - Integrity Failure",
		message:  fmt.Sprintf("Integrity check failed for %s: %s", worksheetID, detail),
		tags:     []string{"lectern", "integrity", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPlaybackError(ctx context.Context, worksheetID string, err error) error {
	if !n.errorEvents {
		return nil
	}
	worksheetID = strings.TrimSpace(worksheetID)
	detail := "unknown"
	if err != nil {
		detail = strings.TrimSpace(err.Error())
	}
	data := payload{
		title:   "Lectern - Playback Error",
		message: fmt.Sprintf("Narration playback failed on %s: %s", worksheetID, detail),
		tags:    []string{"lectern", "playback", "error"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDaemonStarted(ctx context.Context, bind string) error {
	data := payload{
		title:   "Lectern - Started",
		message: fmt.Sprintf("Daemon listening on %s", strings.TrimSpace(bind)),
		tags:    []string{"lectern", "daemon", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDaemonStopped(ctx context.Context, uptime time.Duration) error {
	uptime = uptime.Round(time.Second)
	if uptime < 0 {
		uptime = 0
	}
	data := payload{
		title:   "Lectern - Stopped",
		message: fmt.Sprintf("Daemon shut down after %s", uptime),
		tags:    []string{"lectern", "daemon", "stopped"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorEvents {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Lectern - Error",
		message:  builder.String(),
		tags:     []string{"lectern", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Lectern - Test",
		message:  "Notification system test",
		tags:     []string{"lectern", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		marker := services.ErrNetwork
		if errors.Is(err, context.DeadlineExceeded) || isClientTimeout(err) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, "notifications", "send", "ntfy publish failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrNetwork, "notifications", "send",
			fmt.Sprintf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyAssetAccessed(context.Context, string, string) error      { return nil }
func (noopService) NotifyIntegrityFailure(context.Context, string, string) error   { return nil }
func (noopService) NotifyPlaybackError(context.Context, string, error) error       { return nil }
func (noopService) NotifyDaemonStarted(context.Context, string) error              { return nil }
func (noopService) NotifyDaemonStopped(context.Context, time.Duration) error       { return nil }
func (noopService) NotifyError(context.Context, error, string) error               { return nil }
func (noopService) TestNotification(context.Context) error                         { return nil }
