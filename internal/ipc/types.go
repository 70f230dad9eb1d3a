package ipc

import "shortspulse/internal/api"

// RunState mirrors the engine run state for IPC callers.
type RunState = api.RunState

// VideoView mirrors the dashboard row DTO for IPC callers.
type VideoView = api.VideoView

// SeriesView mirrors the per-video history DTO for IPC callers.
type SeriesView = api.SeriesView

// StartRequest triggers the tracking run.
type StartRequest struct{}

// StartResponse indicates whether the run was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the tracking run.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/run status information.
type StatusResponse struct {
	Running    bool     `json:"running"`
	PID        int      `json:"pid"`
	State      RunState `json:"state"`
	LockPath   string   `json:"lock_path"`
	LogPath    string   `json:"log_path"`
	SocketPath string   `json:"socket_path"`
}

// VideosRequest lists tracked videos. Top limits and reorders by latest
// velocity when positive; zero keeps discovery order.
type VideosRequest struct {
	Top int `json:"top"`
}

// VideosResponse contains the dashboard rows.
type VideosResponse struct {
	Videos []VideoView `json:"videos"`
}

// SeriesRequest fetches one video's full derived history.
type SeriesRequest struct {
	VideoID string `json:"video_id"`
}

// SeriesResponse contains one video's history.
type SeriesResponse struct {
	Series SeriesView `json:"series"`
}

// DiscoveryLogRequest fetches the retained discovery pass log.
type DiscoveryLogRequest struct{}

// DiscoveryLogResponse returns the discovery log lines.
type DiscoveryLogResponse struct {
	Lines []string `json:"lines"`
}

// LogTailRequest fetches daemon log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// WaitReadyRequest blocks until the baseline round lands or the run
// terminates, up to TimeoutMillis.
type WaitReadyRequest struct {
	TimeoutMillis int `json:"timeout_millis"`
}

// WaitReadyResponse reports the settled (or last observed) run state.
type WaitReadyResponse struct {
	State    RunState `json:"state"`
	TimedOut bool     `json:"timed_out"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
