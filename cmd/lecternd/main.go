package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"lectern/internal/config"
	"lectern/internal/daemon"
	"lectern/internal/logging"
	"lectern/internal/notifications"
	"lectern/internal/protect"
	"lectern/internal/server"
	"lectern/internal/worksheet"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (defaults to ~/.config/lectern/config.toml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Secrets may live in a local .env during development; a missing file is
	// not an error.
	_ = godotenv.Load()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := worksheet.Open(cfg)
	if err != nil {
		logger.Error("open worksheet store", logging.Error(err))
		return
	}

	protectSvc, err := protect.NewService(cfg, logger)
	if err != nil {
		logger.Error("init content protection", logging.Error(err))
		return
	}

	srv, err := server.New(server.Options{
		Config:     cfg,
		Logger:     logger,
		Protect:    protectSvc,
		Worksheets: worksheet.NewProvider(store, cfg.Paths.StaticMetaDir, logger),
		Store:      store,
		Signer:     buildSigner(cfg, logger),
		Notifier:   notifications.NewService(cfg),
	})
	if err != nil {
		logger.Error("create api server", logging.Error(err))
		return
	}

	d, err := daemon.New(cfg, store, srv, notifications.NewService(cfg), logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("lecternd shutting down")
}
