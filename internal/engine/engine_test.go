package engine_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"shortspulse/internal/engine"
	"shortspulse/internal/metrics"
	"shortspulse/internal/testsupport"
	"shortspulse/internal/youtube"
)

var (
	testNow     = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	windowStart = time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)
)

func fixedClock() time.Time { return testNow }

// recordingNotifier captures notification calls for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	discovery []int
	noItems   int
	fatal     []string
}

func (r *recordingNotifier) NotifyDiscoveryComplete(_ context.Context, count int, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discovery = append(r.discovery, count)
	return nil
}

func (r *recordingNotifier) NotifyNoShortsToday(context.Context, time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noItems++
	return nil
}

func (r *recordingNotifier) NotifyFatal(_ context.Context, _ error, phase string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fatal = append(r.fatal, phase)
	return nil
}

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func short(id string, counters youtube.Counters) testsupport.FakeVideo {
	return testsupport.FakeVideo{
		VideoID:     id,
		PublishedAt: windowStart.Add(2 * time.Hour),
		Duration:    "PT45S",
		Counters:    counters,
	}
}

func fast(time.Time) time.Duration { return 5 * time.Millisecond }

// never parks the scheduled loop so a test only observes the baseline round.
func never(time.Time) time.Duration { return time.Hour }

func waitFor(t *testing.T, description string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", description)
}

func settle(t *testing.T, e *engine.Engine) engine.StateView {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	view, err := e.WaitSettled(ctx)
	if err != nil {
		t.Fatalf("engine did not settle: %v", err)
	}
	return view
}

func TestRunTracksAndBaselinesTodaysShorts(t *testing.T) {
	src := testsupport.NewFakeSource()
	src.AddChannel("UCchannel1", "Busy Channel",
		short("vid1", youtube.Counters{Views: 100, Likes: 10, Comments: 1}),
		short("vid2", youtube.Counters{Views: 200}),
		short("vid3", youtube.Counters{Views: 300}),
	)
	src.AddChannel("UCchannel2", "Quiet Channel")
	cfg := testsupport.NewConfig(t, testsupport.WithChannels("UCchannel1", "UCchannel2"))
	notifier := &recordingNotifier{}

	e := engine.New(cfg, src, nil, notifier, engine.WithClock(fixedClock), engine.WithSampleDelay(never))
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	view := settle(t, e)
	if view.Phase != engine.PhaseSampling {
		t.Fatalf("expected sampling phase, got %s (error %q)", view.Phase, view.FatalError)
	}
	if !view.Ready {
		t.Fatal("engine must report ready after the baseline round")
	}
	if view.TrackedVideos != 3 {
		t.Fatalf("expected 3 tracked videos, got %d", view.TrackedVideos)
	}
	if !view.WindowStart.Equal(windowStart) {
		t.Errorf("window start: got %v, want %v", view.WindowStart, windowStart)
	}
	if !view.LastSampleAt.Equal(testNow) {
		t.Errorf("baseline sample not stamped with the clock: %v", view.LastSampleAt)
	}
	if len(view.DiscoveryLog) == 0 {
		t.Error("discovery log must be retained for queries")
	}

	ids := e.TrackedIDs()
	if len(ids) != 3 || ids[0] != "vid1" || ids[1] != "vid2" || ids[2] != "vid3" {
		t.Fatalf("discovery order not preserved: %v", ids)
	}
	for _, id := range ids {
		snap, err := e.Snapshot(id)
		if err != nil {
			t.Fatalf("snapshot %s: %v", id, err)
		}
		if len(snap.Samples) != 1 {
			t.Fatalf("video %s should hold exactly the baseline sample, got %d", id, len(snap.Samples))
		}
	}

	e.Stop()
	if len(notifier.discovery) != 1 || notifier.discovery[0] != 3 {
		t.Errorf("discovery notification: %v", notifier.discovery)
	}
}

func TestRunWithNoShortsTodayIsTerminal(t *testing.T) {
	src := testsupport.NewFakeSource()
	src.AddChannel("UCchannel1", "Quiet Channel",
		testsupport.FakeVideo{VideoID: "old", PublishedAt: windowStart.Add(-time.Hour), Duration: "PT30S"},
	)
	cfg := testsupport.NewConfig(t)
	notifier := &recordingNotifier{}

	e := engine.New(cfg, src, nil, notifier, engine.WithClock(fixedClock), engine.WithSampleDelay(never))
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	view := settle(t, e)
	if view.Phase != engine.PhaseNoItems {
		t.Fatalf("expected no_items phase, got %s", view.Phase)
	}
	if view.Ready {
		t.Error("a run with nothing to track must not report ready")
	}
	if len(e.TrackedIDs()) != 0 {
		t.Errorf("store must stay empty, got %v", e.TrackedIDs())
	}
	e.Stop()
	if notifier.noItems != 1 {
		t.Errorf("expected one no-items notification, got %d", notifier.noItems)
	}
	if len(notifier.discovery) != 0 {
		t.Errorf("no discovery notification expected, got %v", notifier.discovery)
	}
}

func TestRunFailsTerminallyOnDiscoveryError(t *testing.T) {
	src := testsupport.NewFakeSource()
	src.AddChannel("UCchannel1", "Channel", short("vid1", youtube.Counters{Views: 1}))
	src.FailResolve()
	cfg := testsupport.NewConfig(t)
	notifier := &recordingNotifier{}

	e := engine.New(cfg, src, nil, notifier, engine.WithClock(fixedClock), engine.WithSampleDelay(never))
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	view := settle(t, e)
	if view.Phase != engine.PhaseFailed {
		t.Fatalf("expected failed phase, got %s", view.Phase)
	}
	if view.FatalError == "" {
		t.Error("fatal error text must be retained for queries")
	}
	e.Stop()
	if len(notifier.fatal) != 1 || notifier.fatal[0] != "discovery" {
		t.Errorf("fatal notification: %v", notifier.fatal)
	}
}

// The log accumulated before a mid-pass failure must survive the terminal
// transition: a failed run stays queryable with whatever it got to.
func TestDiscoveryFailureRetainsAccumulatedLog(t *testing.T) {
	src := testsupport.NewFakeSource()
	src.AddChannel("UCchannel1", "Busy Channel", short("vid1", youtube.Counters{Views: 1}))
	// The second channel is never registered, so its resolve fails after
	// the first channel scanned clean.
	cfg := testsupport.NewConfig(t, testsupport.WithChannels("UCchannel1", "UCunknown"))
	notifier := &recordingNotifier{}

	e := engine.New(cfg, src, nil, notifier, engine.WithClock(fixedClock), engine.WithSampleDelay(never))
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	view := settle(t, e)
	if view.Phase != engine.PhaseFailed {
		t.Fatalf("expected failed phase, got %s", view.Phase)
	}
	if len(view.DiscoveryLog) == 0 {
		t.Fatal("discovery log accumulated before the failure must be retained")
	}
	joined := strings.Join(view.DiscoveryLog, "\n")
	if !strings.Contains(joined, `"Busy Channel": 1 shorts accepted`) {
		t.Errorf("first channel's summary missing from retained log:\n%s", joined)
	}
	if !view.WindowStart.Equal(windowStart) {
		t.Errorf("window start must be retained on failure: got %v", view.WindowStart)
	}
	if view.TrackedVideos != 0 {
		t.Errorf("an aborted pass tracks nothing, got %d", view.TrackedVideos)
	}
	if len(e.TrackedIDs()) != 0 {
		t.Errorf("items from an aborted pass must not reach the store: %v", e.TrackedIDs())
	}
}

func TestBaselineBatchFailureKeepsAppliedBatches(t *testing.T) {
	src := testsupport.NewFakeSource()
	src.AddChannel("UCchannel1", "Channel",
		short("vid1", youtube.Counters{Views: 1}),
		short("vid2", youtube.Counters{Views: 2}),
		short("vid3", youtube.Counters{Views: 3}),
	)
	src.FailCountersAtCall(2)
	cfg := testsupport.NewConfig(t, testsupport.WithBatchSize(2))
	notifier := &recordingNotifier{}

	e := engine.New(cfg, src, nil, notifier, engine.WithClock(fixedClock), engine.WithSampleDelay(never))
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	view := settle(t, e)
	if view.Phase != engine.PhaseFailed {
		t.Fatalf("expected failed phase, got %s", view.Phase)
	}
	if view.Ready {
		t.Error("ready must stay false when the baseline round fails")
	}

	for id, want := range map[string]int{"vid1": 1, "vid2": 1, "vid3": 0} {
		snap, err := e.Snapshot(id)
		if err != nil {
			t.Fatalf("failed run must stay queryable: %v", err)
		}
		if len(snap.Samples) != want {
			t.Errorf("video %s: got %d samples, want %d", id, len(snap.Samples), want)
		}
	}
	e.Stop()
	if len(notifier.fatal) != 1 || notifier.fatal[0] != "sampling" {
		t.Errorf("fatal notification: %v", notifier.fatal)
	}
}

func TestHourlyRoundsRecordNegativeVelocity(t *testing.T) {
	src := testsupport.NewFakeSource()
	src.AddChannel("UCchannel1", "Channel", short("vid1", youtube.Counters{Views: 1000}))
	src.CountersByCall = []map[string]youtube.Counters{
		{"vid1": {Views: 1000, Likes: 100, Comments: 10}},
		{"vid1": {Views: 950, Likes: 100, Comments: 10}},
	}
	cfg := testsupport.NewConfig(t)

	e := engine.New(cfg, src, nil, &recordingNotifier{}, engine.WithClock(fixedClock), engine.WithSampleDelay(fast))
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	settle(t, e)
	waitFor(t, "second sampling round", func() bool {
		snap, err := e.Snapshot("vid1")
		return err == nil && len(snap.Samples) >= 2
	})
	e.Stop()

	snap, err := e.Snapshot("vid1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	points := metrics.Derive(snap)
	if len(points) < 2 {
		t.Fatalf("expected at least two derived points, got %d", len(points))
	}
	if points[1].Velocity != -50 {
		t.Errorf("a downward correction must yield the raw diff: got %v, want -50", points[1].Velocity)
	}
}

func TestStartIsSingleShot(t *testing.T) {
	src := testsupport.NewFakeSource()
	src.AddChannel("UCchannel1", "Channel", short("vid1", youtube.Counters{Views: 1}))
	cfg := testsupport.NewConfig(t)

	e := engine.New(cfg, src, nil, &recordingNotifier{}, engine.WithClock(fixedClock), engine.WithSampleDelay(never))
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := e.Start(context.Background()); err == nil {
		t.Fatal("second Start while running must fail")
	}
	settle(t, e)
	e.Stop()
	if err := e.Start(context.Background()); err == nil {
		t.Fatal("restarting a finished run must fail")
	}
}

func TestStopLeavesStateQueryable(t *testing.T) {
	src := testsupport.NewFakeSource()
	src.AddChannel("UCchannel1", "Channel", short("vid1", youtube.Counters{Views: 42}))
	cfg := testsupport.NewConfig(t)

	e := engine.New(cfg, src, nil, &recordingNotifier{}, engine.WithClock(fixedClock), engine.WithSampleDelay(never))
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	settle(t, e)
	e.Stop()

	if e.Running() {
		t.Error("Running must report false after Stop")
	}
	view := e.State()
	if view.Phase != engine.PhaseSampling || !view.Ready {
		t.Fatalf("stop must not rewrite run state: %+v", view)
	}
	snap, err := e.Snapshot("vid1")
	if err != nil || len(snap.Samples) != 1 {
		t.Fatalf("samples must survive Stop: %v, %d", err, len(snap.Samples))
	}
}
