// Package discovery enumerates today's Shorts across the configured
// channels: it pages each channel's uploads, filters by the publish-time
// window before spending duration lookups, and accepts items at or below the
// duration cutoff.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shortspulse/internal/config"
	"shortspulse/internal/isoduration"
	"shortspulse/internal/logging"
	"shortspulse/internal/timewindow"
	"shortspulse/internal/youtube"
)

// Item is one accepted Short.
type Item struct {
	VideoID      string
	ChannelTitle string
	PublishedAt  time.Time
}

// Result carries the accepted items in channel-iteration then listing order,
// plus the human-readable progress log for the pass. WindowStart is the
// instant that opened today's window, computed fresh for this pass.
type Result struct {
	Items       []Item
	Log         []string
	WindowStart time.Time
}

// Discoverer walks the configured channels once per pass.
type Discoverer struct {
	cfg    *config.Config
	src    youtube.Source
	logger *slog.Logger
	now    func() time.Time
}

// Option configures optional Discoverer behavior.
type Option func(*Discoverer)

// WithClock overrides the wall clock (used in tests).
func WithClock(now func() time.Time) Option {
	return func(d *Discoverer) {
		if now != nil {
			d.now = now
		}
	}
}

// New constructs a Discoverer.
func New(cfg *config.Config, src youtube.Source, logger *slog.Logger, opts ...Option) *Discoverer {
	d := &Discoverer{
		cfg:    cfg,
		src:    src,
		logger: logging.NewComponentLogger(logger, "discovery"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscoverToday enumerates eligible Shorts published in today's window.
// Any collaborator failure aborts the whole pass; the engine treats it as
// fatal and never retries. On failure the returned Result still carries the
// items and log lines accumulated before the abort, so callers can surface
// how far the pass got. The window is computed fresh at call time.
func (d *Discoverer) DiscoverToday(ctx context.Context) (Result, error) {
	windowStart := timewindow.StartOfToday(d.cfg.Tracker.UTCOffsetMinutes, d.now())

	result := Result{WindowStart: windowStart}
	result.logf("discovery window starts %s (UTC offset %+d minutes)",
		windowStart.Format(time.RFC3339), d.cfg.Tracker.UTCOffsetMinutes)

	// First channel to list an id wins; later hits are duplicates.
	owner := make(map[string]string)

	for _, channelID := range d.cfg.Tracker.ChannelIDs {
		channel, err := d.src.ResolveChannel(ctx, channelID)
		if err != nil {
			return result, fmt.Errorf("resolve channel %s: %w", channelID, err)
		}
		result.logf("channel %q (%s): scanning uploads", channel.Title, channelID)

		accepted, err := d.scanChannel(ctx, channel, windowStart, owner, &result)
		if err != nil {
			return result, fmt.Errorf("scan channel %s: %w", channelID, err)
		}

		// Zero accepted is a valid per-channel outcome, not an error.
		result.logf("channel %q: %d shorts accepted today", channel.Title, accepted)
		d.logger.Info("channel scanned",
			logging.String(logging.FieldChannelID, channelID),
			logging.String("channel_title", channel.Title),
			logging.Int("accepted", accepted),
		)
	}

	result.logf("discovery complete: %d shorts tracked across %d channels",
		len(result.Items), len(d.cfg.Tracker.ChannelIDs))
	return result, nil
}

func (d *Discoverer) scanChannel(ctx context.Context, channel youtube.Channel, windowStart time.Time, owner map[string]string, result *Result) (int, error) {
	accepted := 0
	pageToken := ""
	for {
		page, err := d.src.ListUploads(ctx, channel.UploadsPlaylist, pageToken)
		if err != nil {
			return accepted, fmt.Errorf("list uploads: %w", err)
		}

		// Window-filter before spending duration lookups.
		eligible := make([]youtube.Upload, 0, len(page.Items))
		for _, upload := range page.Items {
			if !timewindow.Within(upload.PublishedAt, windowStart) {
				continue
			}
			if firstChannel, dup := owner[upload.VideoID]; dup {
				result.logf("channel %q: skipping duplicate %s (already tracked via %q)",
					channel.Title, upload.VideoID, firstChannel)
				d.logger.Warn("duplicate video across channels; first channel wins",
					logging.String(logging.FieldVideoID, upload.VideoID),
					logging.String("channel_title", channel.Title),
					logging.String("tracked_via", firstChannel),
					logging.String(logging.FieldEventType, "discovery_duplicate"),
				)
				continue
			}
			eligible = append(eligible, upload)
		}

		if len(eligible) > 0 {
			ids := make([]string, len(eligible))
			for i, upload := range eligible {
				ids[i] = upload.VideoID
			}
			durations, err := d.src.FetchDurations(ctx, ids)
			if err != nil {
				return accepted, fmt.Errorf("fetch durations: %w", err)
			}
			for _, upload := range eligible {
				seconds := isoduration.Seconds(durations[upload.VideoID])
				if seconds > d.cfg.Tracker.MaxDurationSeconds {
					continue
				}
				owner[upload.VideoID] = channel.Title
				result.Items = append(result.Items, Item{
					VideoID:      upload.VideoID,
					ChannelTitle: channel.Title,
					PublishedAt:  upload.PublishedAt,
				})
				accepted++
			}
		}

		if page.NextPageToken == "" {
			return accepted, nil
		}
		pageToken = page.NextPageToken
	}
}

func (r *Result) logf(format string, args ...any) {
	r.Log = append(r.Log, fmt.Sprintf(format, args...))
}
