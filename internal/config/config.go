package config

import (
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	LibraryDir    string `toml:"library_dir"`
	LegacyDir     string `toml:"legacy_dir"`
	AudioDir      string `toml:"audio_dir"`
	StaticMetaDir string `toml:"static_meta_dir"`
	DataDir       string `toml:"data_dir"`
	LogDir        string `toml:"log_dir"`
	APIBind       string `toml:"api_bind"`
}

// Content contains settings for the content protection service and
// signed asset URLs. Secrets may also arrive from the environment
// (LECTERN_CONTENT_KEY, LECTERN_SIGNING_SECRET).
type Content struct {
	Key              string `toml:"key" env:"LECTERN_CONTENT_KEY"`
	SigningSecret    string `toml:"signing_secret" env:"LECTERN_SIGNING_SECRET"`
	SignedURLTTL     int    `toml:"signed_url_ttl"`
	AssetExtension   string `toml:"asset_extension"`
	MaxAssetBytes    int64  `toml:"max_asset_bytes"`
	MinFreeDiskBytes int64  `toml:"min_free_disk_bytes"`
}

// Playback contains avatar video segment boundaries and narration timing.
// The segment values are seconds within the avatar loop video.
type Playback struct {
	IdleSegmentEnd   float64 `toml:"idle_segment_end"`
	TalkSegmentStart float64 `toml:"talk_segment_start"`
	VideoDuration    float64 `toml:"video_duration"`
	LoopEpsilon      float64 `toml:"loop_epsilon"`
	ReadyTimeoutMS   int     `toml:"ready_timeout_ms"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Access         bool   `toml:"access"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Lectern.
//
// Configuration sections by subsystem:
//   - Paths: asset/audio/metadata directories and API bind address
//   - Content: encryption key, URL signing secret, asset limits
//   - Playback: avatar segment boundaries and narration timing
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Content       Content       `toml:"content"`
	Playback      Playback      `toml:"playback"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lectern/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized, and secret fields
// resolved against the environment.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lectern.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// LibraryDir is created on a best-effort basis so the daemon can run when
// external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	for _, dir := range []string{c.Paths.LibraryDir, c.Paths.LegacyDir, c.Paths.AudioDir, c.Paths.StaticMetaDir} {
		if strings.TrimSpace(dir) != "" {
			// Best-effort to avoid failing config load when storage is offline.
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	return nil
}

// ContentKeyBytes decodes the configured content key. An empty key returns
// (nil, nil); callers decide whether a missing key is fatal.
func (c *Config) ContentKeyBytes() ([]byte, error) {
	trimmed := strings.TrimSpace(c.Content.Key)
	if trimmed == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("content.key: decode hex: %w", err)
	}
	return raw, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
