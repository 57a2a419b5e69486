package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"lectern/internal/config"
)

// WriteOwnedAsset places asset bytes under the owner-scoped library layout and
// returns the written path.
func WriteOwnedAsset(t testing.TB, cfg *config.Config, ownerID, worksheetID string, data []byte) string {
	t.Helper()
	dir := filepath.Join(cfg.Paths.LibraryDir, ownerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir owner dir: %v", err)
	}
	path := filepath.Join(dir, worksheetID+cfg.Content.AssetExtension)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return path
}

// WriteLegacyAsset places asset bytes in the legacy flat layout and returns
// the written path.
func WriteLegacyAsset(t testing.TB, cfg *config.Config, worksheetID string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(cfg.Paths.LegacyDir, 0o755); err != nil {
		t.Fatalf("mkdir legacy dir: %v", err)
	}
	path := filepath.Join(cfg.Paths.LegacyDir, worksheetID+cfg.Content.AssetExtension)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return path
}

// WriteStaticMeta drops a worksheet metadata JSON document into the static
// fallback directory.
func WriteStaticMeta(t testing.TB, cfg *config.Config, worksheetID string, body []byte) string {
	t.Helper()
	if err := os.MkdirAll(cfg.Paths.StaticMetaDir, 0o755); err != nil {
		t.Fatalf("mkdir static meta dir: %v", err)
	}
	path := filepath.Join(cfg.Paths.StaticMetaDir, worksheetID+".json")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write static meta: %v", err)
	}
	return path
}
