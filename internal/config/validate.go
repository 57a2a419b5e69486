package config

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. The content key may be left
// unset: the protection service reports a configuration error at request time
// so the daemon can still serve unprotected worksheets.
func (c *Config) Validate() error {
	if err := c.validateContent(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateContent() error {
	if c.Content.Key != "" {
		raw, err := hex.DecodeString(c.Content.Key)
		if err != nil {
			return fmt.Errorf("content.key must be hex-encoded (generate one with 'lectern key generate'): %w", err)
		}
		if len(raw) != 32 {
			return fmt.Errorf("content.key must decode to 32 bytes, got %d", len(raw))
		}
	}
	if c.Content.SignedURLTTL <= 0 {
		return errors.New("content.signed_url_ttl must be positive")
	}
	return nil
}

func (c *Config) validatePlayback() error {
	p := c.Playback
	if p.IdleSegmentEnd <= 0 {
		return errors.New("playback.idle_segment_end must be positive")
	}
	if p.TalkSegmentStart < p.IdleSegmentEnd {
		return errors.New("playback.talk_segment_start must not precede playback.idle_segment_end")
	}
	if p.VideoDuration <= p.TalkSegmentStart {
		return errors.New("playback.video_duration must exceed playback.talk_segment_start")
	}
	if p.LoopEpsilon <= 0 || p.LoopEpsilon >= p.VideoDuration-p.TalkSegmentStart {
		return errors.New("playback.loop_epsilon must be positive and smaller than the talking segment")
	}
	if p.ReadyTimeoutMS <= 0 {
		return errors.New("playback.ready_timeout_ms must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be 'console' or 'json', got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}
	return nil
}
