package testsupport

import (
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/config"
)

// testContentKey is a fixed 32-byte key so encrypted payloads are reproducible
// across helpers within one test.
var testContentKey = strings.Repeat("ab", 32)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.LegacyDir = filepath.Join(base, "assets")
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.StaticMetaDir = filepath.Join(base, "worksheets")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Content.Key = testContentKey
	cfgVal.Content.SigningSecret = "test-signing-secret"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithoutContentKey clears the content key to exercise configuration errors.
func WithoutContentKey() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Content.Key = ""
	}
}

// WithContentKey sets an explicit hex content key on the test config.
func WithContentKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Content.Key = key
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
