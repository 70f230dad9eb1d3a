package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"shortspulse/internal/config"
	"shortspulse/internal/discovery"
	"shortspulse/internal/logging"
	"shortspulse/internal/notifications"
	"shortspulse/internal/sampler"
	"shortspulse/internal/series"
	"shortspulse/internal/youtube"
)

// Engine runs one tracking day: a single discovery pass, an immediate first
// sampling round, then one round per wall-clock hour until stopped or a
// collaborator fails.
type Engine struct {
	cfg      *config.Config
	store    *series.Store
	disc     *discovery.Discoverer
	sampler  *sampler.Sampler
	notifier notifications.Service
	logger   *slog.Logger
	state    *state

	now       func() time.Time
	nextDelay func(time.Time) time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures optional Engine behavior.
type Option func(*Engine)

// WithClock overrides the wall clock (used in tests). The clock feeds
// discovery's window computation and sample timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithSampleDelay overrides the pause before each scheduled sampling round
// (used in tests). The default sleeps to the next wall-clock hour.
func WithSampleDelay(delay func(time.Time) time.Duration) Option {
	return func(e *Engine) {
		if delay != nil {
			e.nextDelay = delay
		}
	}
}

// New constructs an Engine around the given data source.
func New(cfg *config.Config, src youtube.Source, logger *slog.Logger, notifier notifications.Service, opts ...Option) *Engine {
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	e := &Engine{
		cfg:       cfg,
		store:     series.NewStore(logger),
		notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "engine"),
		state:     newState(),
		now:       time.Now,
		nextDelay: untilNextHour,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.disc = discovery.New(cfg, src, logger, discovery.WithClock(e.now))
	e.sampler = sampler.New(cfg, src, e.store, logger)
	return e
}

// untilNextHour returns the pause that lands the next round on the hour
// boundary. Exactly on the boundary it returns a full hour, so rounds never
// double up.
func untilNextHour(now time.Time) time.Duration {
	elapsed := time.Duration(now.Minute())*time.Minute + time.Duration(now.Second())*time.Second
	return time.Hour - elapsed
}

// Start begins the tracking run in the background. It fails if the engine
// already ran: a run is single-shot and never restarts.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return errors.New("engine already running")
	}
	if e.state.View().Phase != PhaseIdle {
		return errors.New("engine already ran; tracking runs are single-shot")
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.running = true
	e.wg.Add(1)
	go e.run(runCtx)
	return nil
}

// Stop terminates the background run and waits for it to exit. Safe to call
// repeatedly.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	cancel := e.cancel
	e.running = false
	e.cancel = nil
	e.mu.Unlock()

	cancel()
	e.wg.Wait()
}

// Running reports whether the background run is live.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// State returns a value copy of the current run state.
func (e *Engine) State() StateView {
	return e.state.View()
}

// WaitSettled blocks until the first round lands or the run terminates.
func (e *Engine) WaitSettled(ctx context.Context) (StateView, error) {
	return e.state.WaitSettled(ctx)
}

// Snapshot returns the stored series for one tracked video.
func (e *Engine) Snapshot(videoID string) (series.Snapshot, error) {
	return e.store.Snapshot(videoID)
}

// TrackedIDs returns the tracked video ids in discovery order.
func (e *Engine) TrackedIDs() []string {
	return e.store.TrackedIDs()
}

func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	startedAt := e.now()
	e.state.update(func(v *StateView) {
		v.Phase = PhaseDiscovering
		v.StartedAt = startedAt
	})
	e.logger.Info("tracking run starting", logging.Time("started_at", startedAt))

	// Publish the pass's window and log regardless of outcome: a failed
	// pass stays queryable with whatever accumulated before the abort.
	// The tracked count waits for success; items from an aborted pass
	// never reach the store.
	result, err := e.disc.DiscoverToday(ctx)
	e.state.update(func(v *StateView) {
		v.WindowStart = result.WindowStart
		v.DiscoveryLog = result.Log
	})
	if err != nil {
		e.fail(ctx, "discovery", err)
		return
	}
	e.state.update(func(v *StateView) { v.TrackedVideos = len(result.Items) })

	if len(result.Items) == 0 {
		e.state.update(func(v *StateView) { v.Phase = PhaseNoItems })
		e.logger.Info("no shorts published today; run complete",
			logging.Time("window_start", result.WindowStart),
		)
		if err := e.notifier.NotifyNoShortsToday(ctx, result.WindowStart); err != nil {
			e.logger.Warn("notification failed", logging.Error(err))
		}
		return
	}

	metadata := make([]series.Metadata, len(result.Items))
	for i, item := range result.Items {
		metadata[i] = series.Metadata{
			VideoID:      item.VideoID,
			ChannelTitle: item.ChannelTitle,
			PublishedAt:  item.PublishedAt,
		}
	}
	e.store.Initialize(metadata)
	e.state.update(func(v *StateView) { v.Phase = PhaseSampling })
	e.logger.Info("discovery complete",
		logging.Int("tracked", len(result.Items)),
		logging.Time("window_start", result.WindowStart),
	)
	if err := e.notifier.NotifyDiscoveryComplete(ctx, len(result.Items), result.WindowStart); err != nil {
		e.logger.Warn("notification failed", logging.Error(err))
	}

	// The first round runs immediately so every series has a baseline
	// before the engine reports ready.
	if err := e.sampleOnce(ctx); err != nil {
		e.fail(ctx, "sampling", err)
		return
	}
	e.state.update(func(v *StateView) { v.Ready = true })

	for {
		delay := e.nextDelay(e.now())
		e.state.update(func(v *StateView) { v.NextSampleAt = e.now().Add(delay) })
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		if err := e.sampleOnce(ctx); err != nil {
			e.fail(ctx, "sampling", err)
			return
		}
	}
}

func (e *Engine) sampleOnce(ctx context.Context) error {
	capturedAt := e.now()
	if err := e.sampler.SampleAll(ctx, e.store.TrackedIDs(), capturedAt); err != nil {
		return err
	}
	e.state.update(func(v *StateView) { v.LastSampleAt = capturedAt })
	return nil
}

// fail records the terminal failure. Samples applied before the failure stay
// queryable; only new rounds stop.
func (e *Engine) fail(ctx context.Context, phase string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	e.state.update(func(v *StateView) {
		v.Phase = PhaseFailed
		v.FatalError = err.Error()
	})
	e.logger.Error("tracking run failed",
		logging.Error(err),
		logging.String(logging.FieldEventType, "run_failed"),
		logging.String(logging.FieldErrorHint, "check API key validity and quota, then restart the daemon"),
	)
	// Deliver even when the run context died with the failure.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if nerr := e.notifier.NotifyFatal(notifyCtx, err, phase); nerr != nil {
		e.logger.Warn("notification failed", logging.Error(nerr))
	}
}
