package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/notifications"
	"lectern/internal/preflight"
	"lectern/internal/server"
	"lectern/internal/worksheet"
)

// Daemon coordinates the content delivery services and enforces
// single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *worksheet.Store
	server   *server.Server
	notifier notifications.Service
	logPath  string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	Address      string
	DBPath       string
	LockFilePath string
	Uptime       time.Duration
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *worksheet.Store, srv *server.Server, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || srv == nil {
		return nil, errors.New("daemon requires config, store, and server")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "lecternd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		server:   srv,
		notifier: notifier,
		logPath:  logging.FilePath(cfg),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start runs preflight, acquires the daemon lock, and brings the HTTP
// surface up.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	results := preflight.RunAll(ctx, d.cfg)
	for _, res := range results {
		if res.Passed {
			d.logger.Debug("preflight check passed",
				logging.String("check", res.Name), logging.String("detail", res.Detail))
			continue
		}
		d.logger.Warn("preflight check failed",
			logging.String("check", res.Name), logging.String("detail", res.Detail))
	}
	if fatal := preflight.FatalFailures(results); len(fatal) > 0 {
		names := make([]string, 0, len(fatal))
		for _, res := range fatal {
			names = append(names, res.Name)
		}
		return fmt.Errorf("preflight failed: %s", strings.Join(names, ", "))
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another lectern daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.server.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.started = time.Now()
	d.logger.Info("lectern daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.server.Addr()))
	if err := d.notifier.NotifyDaemonStarted(d.ctx, d.server.Addr()); err != nil {
		d.logger.Warn("startup notification failed", logging.Error(err))
	}
	return nil
}

// Stop shuts the server down and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	uptime := time.Since(d.started)
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("lectern daemon stopped")
	if err := d.notifier.NotifyDaemonStopped(context.Background(), uptime); err != nil {
		d.logger.Warn("shutdown notification failed", logging.Error(err))
	}
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Address:      d.server.Addr(),
		DBPath:       d.store.Path(),
		LockFilePath: d.lockPath,
	}
	if status.Running {
		status.Uptime = time.Since(d.started)
	}
	return status
}
