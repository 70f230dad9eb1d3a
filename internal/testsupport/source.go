package testsupport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shortspulse/internal/youtube"
)

// FakeVideo seeds one upload on a FakeSource channel.
type FakeVideo struct {
	VideoID     string
	PublishedAt time.Time
	Duration    string // ISO 8601 token; empty means the API omits the id
	Counters    youtube.Counters
}

type fakeChannel struct {
	title   string
	uploads []FakeVideo
}

// FakeSource is a scriptable in-memory youtube.Source. Failures are injected
// per operation and fire once on the matching call.
type FakeSource struct {
	mu       sync.Mutex
	channels map[string]*fakeChannel
	pageSize int

	// Hidden ids are omitted from counters responses (deleted/private).
	hidden map[string]bool

	failResolve   bool
	failList      bool
	failDurations bool

	// countersCalls counts FetchCounters invocations; failCountersAtCall
	// fails that 1-based call when non-zero.
	countersCalls      int
	failCountersAtCall int

	CountersByCall []map[string]youtube.Counters // optional per-call override, consumed in order
}

var _ youtube.Source = (*FakeSource)(nil)

// NewFakeSource builds an empty source with the API's 50-item page size.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		channels: make(map[string]*fakeChannel),
		hidden:   make(map[string]bool),
		pageSize: 50,
	}
}

// AddChannel registers a channel and its uploads, newest first or not; the
// engine must not depend on listing order.
func (f *FakeSource) AddChannel(channelID, title string, uploads ...FakeVideo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels[channelID] = &fakeChannel{title: title, uploads: uploads}
}

// SetPageSize shrinks upload pages to force pagination in tests.
func (f *FakeSource) SetPageSize(size int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if size > 0 {
		f.pageSize = size
	}
}

// HideCounters omits the id from future counters responses.
func (f *FakeSource) HideCounters(videoID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hidden[videoID] = true
}

// FailResolve makes the next ResolveChannel call fail.
func (f *FakeSource) FailResolve() { f.mu.Lock(); f.failResolve = true; f.mu.Unlock() }

// FailList makes the next ListUploads call fail.
func (f *FakeSource) FailList() { f.mu.Lock(); f.failList = true; f.mu.Unlock() }

// FailDurations makes the next FetchDurations call fail.
func (f *FakeSource) FailDurations() { f.mu.Lock(); f.failDurations = true; f.mu.Unlock() }

// FailCountersAtCall fails the nth (1-based) FetchCounters call.
func (f *FakeSource) FailCountersAtCall(n int) {
	f.mu.Lock()
	f.failCountersAtCall = n
	f.mu.Unlock()
}

func (f *FakeSource) ResolveChannel(_ context.Context, channelID string) (youtube.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failResolve {
		f.failResolve = false
		return youtube.Channel{}, &youtube.UnavailableError{Op: "channels.list", Err: fmt.Errorf("injected failure")}
	}
	channel, ok := f.channels[channelID]
	if !ok {
		return youtube.Channel{}, &youtube.UnavailableError{Op: "channels.list", Err: fmt.Errorf("channel %s not found", channelID)}
	}
	return youtube.Channel{ID: channelID, Title: channel.title, UploadsPlaylist: "UU" + channelID}, nil
}

func (f *FakeSource) ListUploads(_ context.Context, playlistID, pageToken string) (youtube.UploadsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		f.failList = false
		return youtube.UploadsPage{}, &youtube.UnavailableError{Op: "playlistItems.list", Err: fmt.Errorf("injected failure")}
	}

	channelID := playlistID[2:] // strip the "UU" prefix applied by ResolveChannel
	channel, ok := f.channels[channelID]
	if !ok {
		return youtube.UploadsPage{}, &youtube.UnavailableError{Op: "playlistItems.list", Err: fmt.Errorf("playlist %s not found", playlistID)}
	}

	start := 0
	if pageToken != "" {
		fmt.Sscanf(pageToken, "page-%d", &start)
	}
	end := start + f.pageSize
	if end > len(channel.uploads) {
		end = len(channel.uploads)
	}

	page := youtube.UploadsPage{}
	for _, video := range channel.uploads[start:end] {
		page.Items = append(page.Items, youtube.Upload{VideoID: video.VideoID, PublishedAt: video.PublishedAt})
	}
	if end < len(channel.uploads) {
		page.NextPageToken = fmt.Sprintf("page-%d", end)
	}
	return page, nil
}

func (f *FakeSource) FetchDurations(_ context.Context, videoIDs []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDurations {
		f.failDurations = false
		return nil, &youtube.UnavailableError{Op: "videos.list(contentDetails)", Err: fmt.Errorf("injected failure")}
	}

	result := make(map[string]string, len(videoIDs))
	for _, id := range videoIDs {
		if video, ok := f.findVideo(id); ok && video.Duration != "" {
			result[id] = video.Duration
		}
	}
	return result, nil
}

func (f *FakeSource) FetchCounters(_ context.Context, videoIDs []string) (map[string]youtube.Counters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.countersCalls++
	if f.failCountersAtCall != 0 && f.countersCalls == f.failCountersAtCall {
		return nil, &youtube.UnavailableError{Op: "videos.list(statistics)", Err: fmt.Errorf("injected failure")}
	}

	var override map[string]youtube.Counters
	if len(f.CountersByCall) > 0 {
		override = f.CountersByCall[0]
		f.CountersByCall = f.CountersByCall[1:]
	}

	result := make(map[string]youtube.Counters, len(videoIDs))
	for _, id := range videoIDs {
		if f.hidden[id] {
			continue
		}
		if override != nil {
			if counters, ok := override[id]; ok {
				result[id] = counters
			}
			continue
		}
		if video, ok := f.findVideo(id); ok {
			result[id] = video.Counters
		}
	}
	return result, nil
}

func (f *FakeSource) findVideo(videoID string) (FakeVideo, bool) {
	for _, channel := range f.channels {
		for _, video := range channel.uploads {
			if video.VideoID == videoID {
				return video, true
			}
		}
	}
	return FakeVideo{}, false
}
