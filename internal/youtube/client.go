// Package youtube implements the YouTube Data API v3 calls the engine needs:
// channel resolution, uploads-playlist paging, and batched duration and
// statistics lookups.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxIDsPerCall is the Data API limit on comma-joined ids per videos.list call.
const maxIDsPerCall = 50

// maxPageSize is the Data API limit on playlistItems.list results per page.
const maxPageSize = 50

// Client provides access to the YouTube Data API v3.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Data API client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("youtube api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("youtube base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type channelListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			PublishedAt time.Time `json:"publishedAt"`
			ResourceID  struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// ResolveChannel returns the channel title and uploads playlist id.
func (c *Client) ResolveChannel(ctx context.Context, channelID string) (Channel, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return Channel{}, errors.New("channel id must not be empty")
	}
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", channelID)

	var payload channelListResponse
	if err := c.get(ctx, "channels.list", "/channels", params, &payload); err != nil {
		return Channel{}, err
	}
	if len(payload.Items) == 0 {
		return Channel{}, unavailable("channels.list", 0, fmt.Errorf("channel %s not found", channelID))
	}
	item := payload.Items[0]
	uploads := item.ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return Channel{}, unavailable("channels.list", 0, fmt.Errorf("channel %s has no uploads playlist", channelID))
	}
	return Channel{ID: channelID, Title: item.Snippet.Title, UploadsPlaylist: uploads}, nil
}

// ListUploads returns one page of the uploads playlist.
func (c *Client) ListUploads(ctx context.Context, playlistID, pageToken string) (UploadsPage, error) {
	if strings.TrimSpace(playlistID) == "" {
		return UploadsPage{}, errors.New("playlist id must not be empty")
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(maxPageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var payload playlistItemsResponse
	if err := c.get(ctx, "playlistItems.list", "/playlistItems", params, &payload); err != nil {
		return UploadsPage{}, err
	}

	page := UploadsPage{NextPageToken: payload.NextPageToken}
	page.Items = make([]Upload, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.Snippet.ResourceID.VideoID == "" {
			continue
		}
		page.Items = append(page.Items, Upload{
			VideoID:     item.Snippet.ResourceID.VideoID,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}
	return page, nil
}

// FetchDurations maps video ids to ISO 8601 duration tokens.
func (c *Client) FetchDurations(ctx context.Context, videoIDs []string) (map[string]string, error) {
	result := make(map[string]string, len(videoIDs))
	for _, batch := range chunkIDs(videoIDs, maxIDsPerCall) {
		params := url.Values{}
		params.Set("part", "contentDetails")
		params.Set("id", strings.Join(batch, ","))

		var payload videoListResponse
		if err := c.get(ctx, "videos.list(contentDetails)", "/videos", params, &payload); err != nil {
			return nil, err
		}
		for _, item := range payload.Items {
			result[item.ID] = item.ContentDetails.Duration
		}
	}
	return result, nil
}

// FetchCounters maps video ids to their current engagement counters.
func (c *Client) FetchCounters(ctx context.Context, videoIDs []string) (map[string]Counters, error) {
	result := make(map[string]Counters, len(videoIDs))
	for _, batch := range chunkIDs(videoIDs, maxIDsPerCall) {
		params := url.Values{}
		params.Set("part", "statistics")
		params.Set("id", strings.Join(batch, ","))

		var payload videoListResponse
		if err := c.get(ctx, "videos.list(statistics)", "/videos", params, &payload); err != nil {
			return nil, err
		}
		for _, item := range payload.Items {
			result[item.ID] = Counters{
				Views:    parseCount(item.Statistics.ViewCount),
				Likes:    parseCount(item.Statistics.LikeCount),
				Comments: parseCount(item.Statistics.CommentCount),
			}
		}
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return unavailable(op, 0, fmt.Errorf("parse url: %w", err))
	}
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return unavailable(op, 0, fmt.Errorf("build request: %w", err))
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return unavailable(op, 0, fmt.Errorf("execute request (latency=%v): %w", latency, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unavailable(op, resp.StatusCode, fmt.Errorf("request returned %d (latency=%v)", resp.StatusCode, latency))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return unavailable(op, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// parseCount tolerates the API's string-encoded counters; statistics the
// uploader has hidden arrive as empty strings and count as zero.
func parseCount(value string) uint64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 {
		size = maxIDsPerCall
	}
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
