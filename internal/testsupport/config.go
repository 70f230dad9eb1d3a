// Package testsupport provides shared constructors for engine tests: canned
// configs with temp directories and a scriptable in-memory data source.
package testsupport

import (
	"path/filepath"
	"testing"

	"shortspulse/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp log directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.YouTube.APIKey = "test"
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Tracker.ChannelIDs = []string{"UCchannel1"}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithChannels overrides the tracked channel list.
func WithChannels(ids ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tracker.ChannelIDs = ids
	}
}

// WithBatchSize overrides the counters batch cap.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tracker.BatchSize = size
	}
}

// WithUTCOffset overrides the tracker timezone offset.
func WithUTCOffset(minutes int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tracker.UTCOffsetMinutes = minutes
	}
}
