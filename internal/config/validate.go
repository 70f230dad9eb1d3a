package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateTracker(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if c.YouTube.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/shortspulse/config.toml"
		}
		return fmt.Errorf("youtube.api_key is required. Set YOUTUBE_API_KEY env var or edit %s (create with 'shortspulse config init')", defaultPath)
	}
	if c.YouTube.RequestTimeout <= 0 {
		return errors.New("youtube.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateTracker() error {
	if len(c.Tracker.ChannelIDs) == 0 {
		return errors.New("tracker.channel_ids must list at least one channel")
	}
	seen := make(map[string]struct{}, len(c.Tracker.ChannelIDs))
	for _, id := range c.Tracker.ChannelIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("tracker.channel_ids contains duplicate %q", id)
		}
		seen[id] = struct{}{}
	}
	// A day in any fixed offset zone; offsets beyond +/-14h do not exist.
	if c.Tracker.UTCOffsetMinutes < -14*60 || c.Tracker.UTCOffsetMinutes > 14*60 {
		return errors.New("tracker.utc_offset_minutes must be between -840 and 840")
	}
	if c.Tracker.MaxDurationSeconds <= 0 {
		return errors.New("tracker.max_duration_seconds must be positive")
	}
	if c.Tracker.BatchSize <= 0 || c.Tracker.BatchSize > 50 {
		return errors.New("tracker.batch_size must be between 1 and 50")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
