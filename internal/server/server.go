package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/notifications"
	"lectern/internal/protect"
	"lectern/internal/signing"
	"lectern/internal/worksheet"
)

// Options collects the collaborators the HTTP surface exposes.
type Options struct {
	Config     *config.Config
	Logger     *slog.Logger
	Protect    *protect.Service
	Worksheets *worksheet.Provider
	Store      *worksheet.Store
	Signer     *signing.Signer
	Notifier   notifications.Service
}

// Server owns the HTTP listener and the event hub. Handlers translate
// service errors into status codes; they never shape error semantics
// themselves.
type Server struct {
	bind     string
	cfg      *config.Config
	logger   *slog.Logger
	protect  *protect.Service
	meta     *worksheet.Provider
	store    *worksheet.Store
	signer   *signing.Signer
	notifier notifications.Service
	events   *Hub

	router   *mux.Router
	listener net.Listener
	server   *http.Server
	started  time.Time
}

// New wires the routes. The returned server is inert until Start.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server requires config")
	}
	bind := strings.TrimSpace(opts.Config.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("server requires a bind address")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(opts.Config)
	}

	s := &Server{
		bind:     bind,
		cfg:      opts.Config,
		logger:   logging.NewComponentLogger(opts.Logger, "api-server"),
		protect:  opts.Protect,
		meta:     opts.Worksheets,
		store:    opts.Store,
		signer:   opts.Signer,
		notifier: notifier,
		events:   NewHub(opts.Logger),
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/content/encrypted", s.handleEncryptedContent).Methods(http.MethodPost)
	router.HandleFunc("/api/content/{worksheetId}", s.handleContent).Methods(http.MethodGet)
	router.HandleFunc("/api/assets/{worksheetId}", s.handleAsset).Methods(http.MethodGet)
	router.HandleFunc("/audio/{worksheetId}/{file}", s.handleAudio).Methods(http.MethodGet)
	router.HandleFunc("/api/worksheets", s.handleWorksheetList).Methods(http.MethodGet)
	router.HandleFunc("/api/events", s.events.ServeHTTP)
	router.HandleFunc("/api/logs", s.handleLogs).Methods(http.MethodGet)
	router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	s.router = router

	s.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Router exposes the handler tree for in-process tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start binds the listener and serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.started = time.Now()

	go s.events.Run(ctx)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down outside of context cancellation.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Events exposes the hub so other components can publish.
func (s *Server) Events() *Hub {
	return s.events
}
