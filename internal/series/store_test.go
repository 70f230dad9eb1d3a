package series

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func testMeta(id string) Metadata {
	return Metadata{
		VideoID:      id,
		ChannelTitle: "Example Channel",
		PublishedAt:  time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC),
	}
}

func TestInitializeIsIdempotentPerItem(t *testing.T) {
	store := NewStore(nil)

	if added := store.Initialize([]Metadata{testMeta("vid1"), testMeta("vid2")}); added != 2 {
		t.Fatalf("expected 2 new entries, got %d", added)
	}
	store.Append("vid1", Sample{CapturedAt: time.Now(), Views: 10})

	// Re-initializing must not overwrite metadata or drop samples.
	changed := testMeta("vid1")
	changed.ChannelTitle = "Impostor"
	if added := store.Initialize([]Metadata{changed}); added != 0 {
		t.Fatalf("expected 0 new entries, got %d", added)
	}

	snap, err := store.Snapshot("vid1")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.ChannelTitle != "Example Channel" {
		t.Errorf("metadata overwritten: %q", snap.ChannelTitle)
	}
	if len(snap.Samples) != 1 {
		t.Errorf("samples dropped: %d", len(snap.Samples))
	}
}

func TestAppendUnknownIDNeverPanics(t *testing.T) {
	store := NewStore(nil)
	if store.Append("ghost", Sample{Views: 1}) {
		t.Fatal("append for untracked id should report false")
	}
	if store.Len() != 0 {
		t.Fatal("dropped sample must not create an entry")
	}
}

func TestSnapshotUnknownIDIsDistinguishable(t *testing.T) {
	store := NewStore(nil)
	store.Initialize([]Metadata{testMeta("vid1")})

	if _, err := store.Snapshot("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// A tracked item with zero samples is present, not absent.
	snap, err := store.Snapshot("vid1")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Samples) != 0 {
		t.Fatalf("expected empty sample sequence, got %d", len(snap.Samples))
	}
}

func TestSnapshotReturnsValueCopy(t *testing.T) {
	store := NewStore(nil)
	store.Initialize([]Metadata{testMeta("vid1")})
	store.Append("vid1", Sample{Views: 100})

	snap, err := store.Snapshot("vid1")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	snap.Samples[0].Views = 999

	again, err := store.Snapshot("vid1")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if again.Samples[0].Views != 100 {
		t.Fatal("snapshot mutation leaked into live store")
	}
}

func TestTrackedIDsPreserveDiscoveryOrder(t *testing.T) {
	store := NewStore(nil)
	store.Initialize([]Metadata{testMeta("vid3"), testMeta("vid1"), testMeta("vid2")})

	ids := store.TrackedIDs()
	want := []string{"vid3", "vid1", "vid2"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v", i, ids)
		}
	}
}

func TestConcurrentReadersDuringAppends(t *testing.T) {
	store := NewStore(nil)
	store.Initialize([]Metadata{testMeta("vid1")})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			store.Append("vid1", Sample{Views: uint64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			snap, err := store.Snapshot("vid1")
			if err != nil {
				t.Errorf("Snapshot failed: %v", err)
				return
			}
			// Append order is capture order: views must be non-decreasing
			// within a snapshot because the writer appends increasing values.
			for j := 1; j < len(snap.Samples); j++ {
				if snap.Samples[j].Views < snap.Samples[j-1].Views {
					t.Error("samples out of append order")
					return
				}
			}
		}
	}()
	wg.Wait()
}
