package protect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/services"
)

// Service resolves stored worksheet assets and encrypts them for delivery.
type Service struct {
	cfg    *config.Config
	key    *Key
	logger *slog.Logger
}

// NewService builds the content protection service. The content key is
// imported encrypt-only; a missing key is tolerated here and reported as a
// configuration error when an encrypted delivery is actually requested.
func NewService(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("protect service requires config")
	}
	svc := &Service{cfg: cfg, logger: logging.NewComponentLogger(logger, "protect")}

	raw, err := cfg.ContentKeyBytes()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "protect", "load key", "", err)
	}
	if raw != nil {
		key, err := ImportKey(raw, UsageEncrypt)
		if err != nil {
			return nil, err
		}
		svc.key = key
	}
	return svc, nil
}

// KeyConfigured reports whether encrypted delivery is possible.
func (s *Service) KeyConfigured() bool {
	return s.key != nil
}

// ResolveAsset locates the stored bytes for a worksheet. The owner-scoped
// layout is tried first, then the legacy flat layout; the first hit wins.
func (s *Service) ResolveAsset(ctx context.Context, ownerID, worksheetID string) ([]byte, string, error) {
	if worksheetID == "" {
		return nil, "", services.Wrap(services.ErrValidation, "protect", "resolve", "worksheet id required", nil)
	}

	name := worksheetID + s.cfg.Content.AssetExtension
	candidates := make([]string, 0, 2)
	if ownerID != "" {
		candidates = append(candidates, filepath.Join(s.cfg.Paths.LibraryDir, ownerID, name))
	}
	candidates = append(candidates, filepath.Join(s.cfg.Paths.LegacyDir, name))

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, "", services.Wrap(services.ErrTransient, "protect", "resolve", "read asset", err)
		}
		if max := s.cfg.Content.MaxAssetBytes; max > 0 && int64(len(data)) > max {
			return nil, "", services.Wrap(services.ErrValidation, "protect", "resolve",
				fmt.Sprintf("asset exceeds %d bytes", max), nil)
		}
		return data, path, nil
	}
	return nil, "", services.Wrap(services.ErrNotFound, "protect", "resolve",
		fmt.Sprintf("worksheet %s has no stored asset", worksheetID), nil)
}

// EncryptAsset resolves and seals a worksheet asset for one request. Every
// successful access is audit-logged with the requester identity, asset path,
// and timestamp; there is no other side effect.
func (s *Service) EncryptAsset(ctx context.Context, ownerID, worksheetID, requesterID string) (Payload, error) {
	if s.key == nil {
		err := services.Wrap(services.ErrConfiguration, "protect", "encrypt", "content key not configured", nil)
		s.logger.Error("encrypted delivery unavailable", logging.Error(err))
		return Payload{}, err
	}

	data, path, err := s.ResolveAsset(ctx, ownerID, worksheetID)
	if err != nil {
		return Payload{}, err
	}

	payload, err := Encrypt(data, s.key)
	if err != nil {
		return Payload{}, err
	}

	logging.WithContext(ctx, s.logger).Info("asset access",
		logging.String(logging.FieldWorksheetID, worksheetID),
		logging.String(logging.FieldRequester, requesterID),
		logging.String("asset_path", path),
		logging.String("audit_id", uuid.NewString()),
		logging.String("accessed_at", time.Now().UTC().Format(time.RFC3339)),
	)
	return payload, nil
}
