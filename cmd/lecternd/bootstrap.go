package main

import (
	"log/slog"
	"strings"
	"time"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/signing"
)

// buildSigner mints the asset URL signer when a secret is configured. Without
// one the daemon still serves metadata and encrypted content; only raw signed
// downloads are disabled.
func buildSigner(cfg *config.Config, logger *slog.Logger) *signing.Signer {
	if strings.TrimSpace(cfg.Content.SigningSecret) == "" {
		logger.Warn("signing secret not configured, raw asset downloads disabled")
		return nil
	}
	ttl := time.Duration(cfg.Content.SignedURLTTL) * time.Second
	signer, err := signing.New(cfg.Content.SigningSecret, ttl)
	if err != nil {
		logger.Warn("signer unavailable", logging.Error(err))
		return nil
	}
	return signer
}
