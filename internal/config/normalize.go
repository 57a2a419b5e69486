package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeContent(); err != nil {
		return err
	}
	c.normalizePlayback()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LegacyDir, err = expandPath(c.Paths.LegacyDir); err != nil {
		return fmt.Errorf("paths.legacy_dir: %w", err)
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.StaticMetaDir, err = expandPath(c.Paths.StaticMetaDir); err != nil {
		return fmt.Errorf("paths.static_meta_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

// normalizeContent resolves secrets from the environment when the config file
// leaves them unset. Environment values win so deployments can keep key
// material out of the TOML file entirely.
func (c *Config) normalizeContent() error {
	var overrides Content
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("content: parse environment: %w", err)
	}
	if strings.TrimSpace(overrides.Key) != "" {
		c.Content.Key = overrides.Key
	}
	if strings.TrimSpace(overrides.SigningSecret) != "" {
		c.Content.SigningSecret = overrides.SigningSecret
	}
	c.Content.Key = strings.TrimSpace(c.Content.Key)
	c.Content.SigningSecret = strings.TrimSpace(c.Content.SigningSecret)
	if c.Content.SignedURLTTL <= 0 {
		c.Content.SignedURLTTL = defaultSignedURLTTL
	}
	ext := strings.TrimSpace(c.Content.AssetExtension)
	if ext == "" {
		ext = defaultAssetExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Content.AssetExtension = ext
	if c.Content.MaxAssetBytes <= 0 {
		c.Content.MaxAssetBytes = defaultMaxAssetBytes
	}
	if c.Content.MinFreeDiskBytes < 0 {
		c.Content.MinFreeDiskBytes = defaultMinFreeDiskBytes
	}
	return nil
}

func (c *Config) normalizePlayback() {
	if c.Playback.IdleSegmentEnd <= 0 {
		c.Playback.IdleSegmentEnd = defaultIdleSegmentEnd
	}
	if c.Playback.TalkSegmentStart <= 0 {
		c.Playback.TalkSegmentStart = defaultTalkSegmentStart
	}
	if c.Playback.VideoDuration <= 0 {
		c.Playback.VideoDuration = defaultVideoDuration
	}
	if c.Playback.LoopEpsilon <= 0 {
		c.Playback.LoopEpsilon = defaultLoopEpsilon
	}
	if c.Playback.ReadyTimeoutMS <= 0 {
		c.Playback.ReadyTimeoutMS = defaultReadyTimeoutMS
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
