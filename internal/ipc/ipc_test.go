package ipc_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"shortspulse/internal/daemon"
	"shortspulse/internal/engine"
	"shortspulse/internal/ipc"
	"shortspulse/internal/testsupport"
	"shortspulse/internal/youtube"
)

var (
	testNow     = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	windowStart = time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)
)

func startServer(t *testing.T) (*ipc.Client, *daemon.Daemon) {
	t.Helper()

	src := testsupport.NewFakeSource()
	src.AddChannel("UCchannel1", "Channel",
		testsupport.FakeVideo{
			VideoID:     "vid1",
			PublishedAt: windowStart.Add(2 * time.Hour),
			Duration:    "PT45S",
			Counters:    youtube.Counters{Views: 500, Likes: 25, Comments: 5},
		},
	)
	cfg := testsupport.NewConfig(t)
	eng := engine.New(cfg, src, nil, nil,
		engine.WithClock(func() time.Time { return testNow }),
		engine.WithSampleDelay(func(time.Time) time.Duration { return time.Hour }),
	)
	d, err := daemon.New(cfg, eng, nil)
	if err != nil {
		t.Fatalf("daemon.New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	socket := filepath.Join(t.TempDir(), "s.sock")
	server, err := ipc.NewServer(ctx, socket, d, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	server.Serve()
	t.Cleanup(func() {
		server.Close()
		d.Close()
		cancel()
	})

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, d
}

func TestServerRoundTrip(t *testing.T) {
	client, _ := startServer(t)

	started, err := client.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !started.Started {
		t.Fatalf("expected run to start: %+v", started)
	}

	again, err := client.Start()
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if again.Started || again.Message == "" {
		t.Fatalf("double start must be reported, not errored: %+v", again)
	}

	ready, err := client.WaitReady(5 * time.Second)
	if err != nil {
		t.Fatalf("WaitReady failed: %v", err)
	}
	if ready.TimedOut || !ready.State.Ready {
		t.Fatalf("run did not settle: %+v", ready)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.Running || status.State.TrackedVideos != 1 || status.PID == 0 {
		t.Fatalf("unexpected status: %+v", status)
	}

	videos, err := client.Videos(0)
	if err != nil {
		t.Fatalf("Videos failed: %v", err)
	}
	if len(videos.Videos) != 1 || videos.Videos[0].VideoID != "vid1" || videos.Videos[0].Views != 500 {
		t.Fatalf("unexpected videos: %+v", videos.Videos)
	}

	series, err := client.Series("vid1")
	if err != nil {
		t.Fatalf("Series failed: %v", err)
	}
	if len(series.Series.Points) != 1 {
		t.Fatalf("expected the baseline point: %+v", series.Series)
	}
	if !series.Series.Points[0].EngagementDefined || series.Series.Points[0].EngagementRate != 0.06 {
		t.Fatalf("engagement not derived over the wire: %+v", series.Series.Points[0])
	}

	if _, err := client.Series("missing"); err == nil {
		t.Fatal("unknown video must surface as an RPC error")
	}
	if _, err := client.Series(""); err == nil {
		t.Fatal("empty video id must be rejected")
	}

	log, err := client.DiscoveryLog()
	if err != nil {
		t.Fatalf("DiscoveryLog failed: %v", err)
	}
	if len(log.Lines) == 0 {
		t.Fatal("discovery log must round-trip")
	}

	stopped, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if !stopped.Stopped {
		t.Fatalf("unexpected stop response: %+v", stopped)
	}
}

func TestLogTailOverRPC(t *testing.T) {
	client, d := startServer(t)

	if _, err := client.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := client.WaitReady(5 * time.Second); err != nil {
		t.Fatalf("WaitReady failed: %v", err)
	}

	// No daemon log file exists in this test; tail must degrade to empty.
	resp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: 10})
	if err != nil {
		t.Fatalf("LogTail failed: %v", err)
	}
	if len(resp.Lines) != 0 || resp.Offset != 0 {
		t.Fatalf("expected empty tail for missing log at %s: %+v", d.LogPath(), resp)
	}
}

func TestDialFailsWithoutServer(t *testing.T) {
	if _, err := ipc.Dial(filepath.Join(t.TempDir(), "nope.sock")); err == nil {
		t.Fatal("dialing a missing socket must fail")
	}
}
