package api

import "time"

// RunState is the wire form of the engine's run state.
type RunState struct {
	Phase         string    `json:"phase"`
	Ready         bool      `json:"ready"`
	StartedAt     time.Time `json:"started_at"`
	WindowStart   time.Time `json:"window_start"`
	TrackedVideos int       `json:"tracked_videos"`
	LastSampleAt  time.Time `json:"last_sample_at"`
	NextSampleAt  time.Time `json:"next_sample_at"`
	FatalError    string    `json:"fatal_error"`
}

// VideoView is one dashboard row: video identity plus its most recent
// derived point. HasSamples is false until the baseline round lands, in
// which case the counter and metric fields are zero values.
type VideoView struct {
	VideoID           string    `json:"video_id"`
	ChannelTitle      string    `json:"channel_title"`
	PublishedAt       time.Time `json:"published_at"`
	SampleCount       int       `json:"sample_count"`
	HasSamples        bool      `json:"has_samples"`
	CapturedAt        time.Time `json:"captured_at"`
	Views             uint64    `json:"views"`
	Likes             uint64    `json:"likes"`
	Comments          uint64    `json:"comments"`
	Velocity          float64   `json:"velocity"`
	EngagementRate    float64   `json:"engagement_rate"`
	EngagementDefined bool      `json:"engagement_defined"`
}

// SeriesPoint is one derived sample in a video's history.
type SeriesPoint struct {
	CapturedAt        time.Time `json:"captured_at"`
	Views             uint64    `json:"views"`
	Likes             uint64    `json:"likes"`
	Comments          uint64    `json:"comments"`
	Velocity          float64   `json:"velocity"`
	EngagementRate    float64   `json:"engagement_rate"`
	EngagementDefined bool      `json:"engagement_defined"`
}

// SeriesView is one video's full derived history.
type SeriesView struct {
	VideoID      string        `json:"video_id"`
	ChannelTitle string        `json:"channel_title"`
	PublishedAt  time.Time     `json:"published_at"`
	Points       []SeriesPoint `json:"points"`
}
