package worksheet

import (
	"context"
	"errors"
	"log/slog"

	"lectern/internal/logging"
	"lectern/internal/services"
)

// Provider resolves worksheet metadata from the store first, falling back to
// the static JSON directory for worksheets that were never imported.
type Provider struct {
	store     *Store
	staticDir string
	logger    *slog.Logger
}

// NewProvider wires the dual metadata sources. The store may be nil in
// static-only deployments.
func NewProvider(store *Store, staticDir string, logger *slog.Logger) *Provider {
	return &Provider{
		store:     store,
		staticDir: staticDir,
		logger:    logging.NewComponentLogger(logger, "worksheet"),
	}
}

// GetMeta returns worksheet metadata, preferring the database copy.
func (p *Provider) GetMeta(ctx context.Context, worksheetID string) (Meta, error) {
	if p.store != nil {
		meta, err := p.store.GetMeta(ctx, worksheetID)
		if err == nil {
			return meta, nil
		}
		if !errors.Is(err, services.ErrNotFound) {
			return Meta{}, err
		}
	}
	if p.staticDir == "" {
		return Meta{}, services.Wrap(services.ErrNotFound, "worksheet", "get", "worksheet "+worksheetID+" unknown", nil)
	}
	meta, err := LoadStatic(p.staticDir, worksheetID)
	if err != nil {
		return Meta{}, err
	}
	p.logger.Debug("served static metadata", logging.String(logging.FieldWorksheetID, worksheetID))
	return meta, nil
}
