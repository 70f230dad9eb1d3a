package config

const (
	defaultLogDir                = "~/.local/share/shortspulse/logs"
	defaultYouTubeBaseURL        = "https://www.googleapis.com/youtube/v3"
	defaultYouTubeRequestTimeout = 30
	defaultUTCOffsetMinutes      = 330
	defaultMaxDurationSeconds    = 180
	defaultBatchSize             = 50
	defaultNotifyRequestTimeout  = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		YouTube: YouTube{
			BaseURL:        defaultYouTubeBaseURL,
			RequestTimeout: defaultYouTubeRequestTimeout,
		},
		Tracker: Tracker{
			UTCOffsetMinutes:   defaultUTCOffsetMinutes,
			MaxDurationSeconds: defaultMaxDurationSeconds,
			BatchSize:          defaultBatchSize,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Discovery:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
