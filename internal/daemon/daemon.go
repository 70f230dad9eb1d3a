package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"shortspulse/internal/api"
	"shortspulse/internal/config"
	"shortspulse/internal/engine"
	"shortspulse/internal/logging"
	"shortspulse/internal/notifications"
	"shortspulse/internal/series"
)

// Daemon owns the tracking engine's lifecycle and enforces single-instance
// execution via a lock file beside the log directory.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	engine  *engine.Engine
	logPath string

	lockPath string
	lock     *flock.Flock

	// mu serializes Start and Stop; lifecycle can be driven from both
	// the IPC layer and signal handling at once.
	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	State        api.RunState
	LockFilePath string
	LogPath      string
	SocketPath   string
}

// New constructs a daemon around an initialized engine.
func New(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || eng == nil {
		return nil, errors.New("daemon requires config and engine")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "shortspulsed.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		engine:   eng,
		logPath:  filepath.Join(cfg.Paths.LogDir, "shortspulse.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the tracking run.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another shortspulse daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.engine.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		return fmt.Errorf("start engine: %w", err)
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("shortspulse daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops the tracking run and releases the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.engine.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("shortspulse daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		State:        api.FromEngineState(d.engine.State()),
		LockFilePath: d.lockPath,
		LogPath:      d.logPath,
		SocketPath:   d.cfg.SocketPath(),
	}
}

// Videos returns the dashboard rows for every tracked video in discovery
// order. The engine keeps the store queryable after terminal failures, so
// this works in every phase.
func (d *Daemon) Videos() []api.VideoView {
	ids := d.engine.TrackedIDs()
	views := make([]api.VideoView, 0, len(ids))
	for _, id := range ids {
		snap, err := d.engine.Snapshot(id)
		if err != nil {
			continue
		}
		views = append(views, api.VideoViewFromSnapshot(snap))
	}
	return views
}

// TopVideos returns up to limit dashboard rows ordered by latest velocity,
// highest first. Ties keep the discovery order.
func (d *Daemon) TopVideos(limit int) []api.VideoView {
	views := d.Videos()
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Velocity > views[j].Velocity
	})
	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	return views
}

// Series returns one video's full derived history.
func (d *Daemon) Series(videoID string) (api.SeriesView, error) {
	snap, err := d.engine.Snapshot(videoID)
	if err != nil {
		if errors.Is(err, series.ErrNotFound) {
			return api.SeriesView{}, fmt.Errorf("video %s is not tracked", videoID)
		}
		return api.SeriesView{}, err
	}
	return api.FromSnapshot(snap), nil
}

// DiscoveryLog returns the retained discovery pass log.
func (d *Daemon) DiscoveryLog() []string {
	return d.engine.State().DiscoveryLog
}

// WaitReady blocks until the baseline round lands or the run terminates.
func (d *Daemon) WaitReady(ctx context.Context) (api.RunState, error) {
	view, err := d.engine.WaitSettled(ctx)
	return api.FromEngineState(view), err
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}
