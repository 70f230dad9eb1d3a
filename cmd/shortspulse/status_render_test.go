package main

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"shortspulse/internal/ipc"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Running", statusError, "no", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Running:", "[ERROR] no")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Running", statusOK, "yes", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRunStateLines(t *testing.T) {
	state := ipc.RunState{
		Phase:         "failed",
		Ready:         false,
		WindowStart:   time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC),
		TrackedVideos: 4,
		FatalError:    "discovery failed: boom",
	}
	lines := runStateLines(state, false)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[ERROR] failed") {
		t.Fatalf("expected failed phase line, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[WARN] no") {
		t.Fatalf("expected not-ready line, got %q", lines[1])
	}
	if !strings.Contains(lines[4], "discovery failed: boom") {
		t.Fatalf("expected fatal error line, got %q", lines[4])
	}
}

func TestPhaseStatusKind(t *testing.T) {
	if got := phaseStatusKind("sampling"); got != statusOK {
		t.Fatalf("sampling: got %v", got)
	}
	if got := phaseStatusKind("no_items"); got != statusWarn {
		t.Fatalf("no_items: got %v", got)
	}
	if got := phaseStatusKind("idle"); got != statusInfo {
		t.Fatalf("idle: got %v", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
