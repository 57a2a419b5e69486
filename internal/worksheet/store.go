package worksheet

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"lectern/internal/config"
	"lectern/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; existing databases then need to be recreated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages worksheet metadata persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open initializes or connects to the worksheet database under the data dir.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "worksheets.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the filesystem location of the database.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// SaveMeta inserts or replaces a worksheet and its regions atomically.
func (s *Store) SaveMeta(ctx context.Context, meta Meta) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(meta.WorksheetID) == "" {
		return services.Wrap(services.ErrValidation, "worksheet", "save", "worksheet id required", nil)
	}

	drmPages, err := json.Marshal(pagesOrEmpty(meta.DRMProtectedPages))
	if err != nil {
		return fmt.Errorf("marshal drm pages: %w", err)
	}

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck

		_, err = tx.ExecContext(ctx, `
			INSERT INTO worksheets (id, document_id, document_name, drm_protected, drm_pages)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				document_id = excluded.document_id,
				document_name = excluded.document_name,
				drm_protected = excluded.drm_protected,
				drm_pages = excluded.drm_pages,
				updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
			meta.WorksheetID, meta.DocumentID, meta.DocumentName, boolToInt(meta.DRMProtected), string(drmPages))
		if err != nil {
			return fmt.Errorf("upsert worksheet: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM regions WHERE worksheet_id = ?", meta.WorksheetID); err != nil {
			return fmt.Errorf("clear regions: %w", err)
		}

		for i, region := range meta.Regions {
			steps, err := json.Marshal(stepsOrEmpty(region.Steps))
			if err != nil {
				return fmt.Errorf("marshal steps for region %s: %w", region.ID, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO regions (worksheet_id, id, page, x, y, width, height, type, name, steps, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				meta.WorksheetID, region.ID, region.Page, region.X, region.Y,
				region.Width, region.Height, region.Type, region.Name, string(steps), i)
			if err != nil {
				return fmt.Errorf("insert region %s: %w", region.ID, err)
			}
		}

		return tx.Commit()
	})
}

// GetMeta loads a worksheet with its regions in stored order.
func (s *Store) GetMeta(ctx context.Context, worksheetID string) (Meta, error) {
	ctx = ensureContext(ctx)

	var (
		meta      Meta
		protected int
		drmPages  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, document_name, drm_protected, drm_pages
		FROM worksheets WHERE id = ?`, worksheetID).
		Scan(&meta.WorksheetID, &meta.DocumentID, &meta.DocumentName, &protected, &drmPages)
	if errors.Is(err, sql.ErrNoRows) {
		return Meta{}, services.Wrap(services.ErrNotFound, "worksheet", "get",
			fmt.Sprintf("worksheet %s not in store", worksheetID), nil)
	}
	if err != nil {
		return Meta{}, fmt.Errorf("query worksheet: %w", err)
	}
	meta.DRMProtected = protected != 0
	if err := json.Unmarshal([]byte(drmPages), &meta.DRMProtectedPages); err != nil {
		return Meta{}, fmt.Errorf("decode drm pages: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, page, x, y, width, height, type, name, steps
		FROM regions WHERE worksheet_id = ? ORDER BY position`, worksheetID)
	if err != nil {
		return Meta{}, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			region Region
			steps  string
		)
		if err := rows.Scan(&region.ID, &region.Page, &region.X, &region.Y,
			&region.Width, &region.Height, &region.Type, &region.Name, &steps); err != nil {
			return Meta{}, fmt.Errorf("scan region: %w", err)
		}
		if err := json.Unmarshal([]byte(steps), &region.Steps); err != nil {
			return Meta{}, fmt.Errorf("decode steps for region %s: %w", region.ID, err)
		}
		meta.Regions = append(meta.Regions, region)
	}
	if err := rows.Err(); err != nil {
		return Meta{}, fmt.Errorf("iterate regions: %w", err)
	}
	return meta, nil
}

// ListMeta returns all stored worksheets without their regions, ordered by id.
func (s *Store) ListMeta(ctx context.Context) ([]Meta, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, document_name, drm_protected, drm_pages
		FROM worksheets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query worksheets: %w", err)
	}
	defer rows.Close()

	var out []Meta
	for rows.Next() {
		var (
			meta      Meta
			protected int
			drmPages  string
		)
		if err := rows.Scan(&meta.WorksheetID, &meta.DocumentID, &meta.DocumentName, &protected, &drmPages); err != nil {
			return nil, fmt.Errorf("scan worksheet: %w", err)
		}
		meta.DRMProtected = protected != 0
		if err := json.Unmarshal([]byte(drmPages), &meta.DRMProtectedPages); err != nil {
			return nil, fmt.Errorf("decode drm pages: %w", err)
		}
		out = append(out, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate worksheets: %w", err)
	}
	return out, nil
}

// Delete removes a worksheet and its regions.
func (s *Store) Delete(ctx context.Context, worksheetID string) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM worksheets WHERE id = ?", worksheetID)
		return err
	})
}

// Count reports how many worksheets are stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM worksheets").Scan(&n); err != nil {
		return 0, fmt.Errorf("count worksheets: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func pagesOrEmpty(pages []int) []int {
	if pages == nil {
		return []int{}
	}
	return pages
}

func stepsOrEmpty(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}
