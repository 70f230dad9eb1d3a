package series

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"shortspulse/internal/logging"
)

// ErrNotFound reports a lookup for a video id the store does not track.
var ErrNotFound = errors.New("series: video not tracked")

// Metadata describes a tracked video. Set once at discovery, never mutated.
type Metadata struct {
	VideoID      string
	ChannelTitle string
	PublishedAt  time.Time
}

// Sample is one engagement capture. Counters come straight from the API and
// are not assumed monotonic; the source can correct them downward.
type Sample struct {
	CapturedAt time.Time
	Views      uint64
	Likes      uint64
	Comments   uint64
}

// Snapshot is a value copy of one video's series.
type Snapshot struct {
	Metadata
	Samples []Sample
}

type entry struct {
	meta    Metadata
	samples []Sample
}

// Store is the concurrent-safe series store. The zero value is not usable;
// construct with NewStore.
type Store struct {
	logger *slog.Logger

	mu    sync.Mutex
	items map[string]*entry
	order []string
}

// NewStore builds an empty store. A nil logger silences the store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		logger: logging.NewComponentLogger(logger, "series"),
		items:  make(map[string]*entry),
	}
}

// Initialize creates an empty series for each item not already present.
// Idempotent per video id: re-initializing never overwrites metadata or drops
// samples. Returns the number of newly created entries.
func (s *Store) Initialize(items []Metadata) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, meta := range items {
		if meta.VideoID == "" {
			continue
		}
		if _, exists := s.items[meta.VideoID]; exists {
			continue
		}
		s.items[meta.VideoID] = &entry{meta: meta}
		s.order = append(s.order, meta.VideoID)
		added++
	}
	return added
}

// Append adds one sample to a tracked video's series. An unknown id is
// dropped with a warning rather than panicking: a counters response can only
// name untracked ids if the collaborator misbehaves, and that must not take
// the engine down.
func (s *Store) Append(videoID string, sample Sample) bool {
	s.mu.Lock()
	item, ok := s.items[videoID]
	if ok {
		item.samples = append(item.samples, sample)
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("dropping sample for untracked video",
			logging.String(logging.FieldVideoID, videoID),
			logging.String(logging.FieldEventType, "sample_untracked"),
			logging.String(logging.FieldErrorHint, "counters response named an id discovery never accepted"),
		)
	}
	return ok
}

// Snapshot returns a value copy of one video's metadata and samples.
func (s *Store) Snapshot(videoID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[videoID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	snap := Snapshot{Metadata: item.meta}
	if len(item.samples) > 0 {
		snap.Samples = make([]Sample, len(item.samples))
		copy(snap.Samples, item.samples)
	}
	return snap, nil
}

// TrackedIDs returns all tracked video ids in discovery order.
func (s *Store) TrackedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Len reports the number of tracked videos.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
