package engine

import (
	"context"
	"sync"
	"time"
)

// Phase is the engine's lifecycle position. Transitions move strictly
// forward: NoItems and Failed are terminal, and a run never restarts.
type Phase string

const (
	// PhaseIdle is the state before Start.
	PhaseIdle Phase = "idle"
	// PhaseDiscovering is the single discovery pass.
	PhaseDiscovering Phase = "discovering"
	// PhaseSampling covers everything after discovery accepts at least one
	// item: the immediate first round and the hourly loop.
	PhaseSampling Phase = "sampling"
	// PhaseNoItems means discovery found nothing published today. Terminal.
	PhaseNoItems Phase = "no_items"
	// PhaseFailed means a collaborator call failed. Terminal; samples
	// captured before the failure stay queryable.
	PhaseFailed Phase = "failed"
)

// Terminal reports whether the phase ends the run.
func (p Phase) Terminal() bool {
	return p == PhaseNoItems || p == PhaseFailed
}

// StateView is a value copy of the engine's run state, safe to hand across
// the IPC boundary.
type StateView struct {
	Phase         Phase
	Ready         bool
	StartedAt     time.Time
	WindowStart   time.Time
	TrackedVideos int
	DiscoveryLog  []string
	LastSampleAt  time.Time
	NextSampleAt  time.Time
	FatalError    string
}

// Settled reports whether queries can rely on the view: either the first
// sampling round landed or the run ended without one.
func (v StateView) Settled() bool {
	return v.Ready || v.Phase.Terminal()
}

// state guards the mutable run state and lets waiters watch for changes
// without polling. Every update swaps the changed channel so blocked waiters
// wake exactly once per mutation.
type state struct {
	mu      sync.Mutex
	view    StateView
	changed chan struct{}
}

func newState() *state {
	return &state{
		view:    StateView{Phase: PhaseIdle},
		changed: make(chan struct{}),
	}
}

func (s *state) update(mutate func(*StateView)) {
	s.mu.Lock()
	mutate(&s.view)
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

// View returns a deep value copy of the current state.
func (s *state) View() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.view
	if len(s.view.DiscoveryLog) > 0 {
		view.DiscoveryLog = make([]string, len(s.view.DiscoveryLog))
		copy(view.DiscoveryLog, s.view.DiscoveryLog)
	}
	return view
}

// WaitSettled blocks until the run settles or ctx ends, returning the view
// observed last.
func (s *state) WaitSettled(ctx context.Context) (StateView, error) {
	for {
		s.mu.Lock()
		view := s.view
		changed := s.changed
		s.mu.Unlock()
		if view.Settled() {
			return s.View(), nil
		}
		select {
		case <-ctx.Done():
			return s.View(), ctx.Err()
		case <-changed:
		}
	}
}
