package youtube

import (
	"context"
	"time"
)

// Channel identifies a tracked channel and its uploads listing.
type Channel struct {
	ID              string
	Title           string
	UploadsPlaylist string
}

// Upload is one entry from a channel's uploads playlist.
type Upload struct {
	VideoID     string
	PublishedAt time.Time
}

// UploadsPage is a single page of a channel's uploads playlist.
type UploadsPage struct {
	Items         []Upload
	NextPageToken string
}

// Counters holds the public engagement counters for one video.
type Counters struct {
	Views    uint64
	Likes    uint64
	Comments uint64
}

// Source defines the read operations the polling engine consumes. Any call
// may fail with *UnavailableError; the engine never retries and treats a
// failure as fatal for the current pass.
type Source interface {
	// ResolveChannel returns the channel title and its uploads playlist id.
	ResolveChannel(ctx context.Context, channelID string) (Channel, error)
	// ListUploads returns one page (at most 50 entries) of the uploads
	// playlist. Pass the previous page's NextPageToken to continue; an empty
	// NextPageToken in the result means the listing is exhausted.
	ListUploads(ctx context.Context, playlistID, pageToken string) (UploadsPage, error)
	// FetchDurations maps video ids to their ISO 8601 duration tokens.
	// Ids unknown to the API are absent from the result.
	FetchDurations(ctx context.Context, videoIDs []string) (map[string]string, error)
	// FetchCounters maps video ids to their current engagement counters.
	// Ids unknown to the API (deleted, private) are absent from the result.
	FetchCounters(ctx context.Context, videoIDs []string) (map[string]Counters, error)
}
