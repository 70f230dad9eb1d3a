// Package sampler fetches current engagement counters for tracked videos in
// bounded batches and appends one sample per responding video to the series
// store.
package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shortspulse/internal/config"
	"shortspulse/internal/logging"
	"shortspulse/internal/series"
	"shortspulse/internal/youtube"
)

// CounterFetcher is the slice of the data source the sampler consumes.
type CounterFetcher interface {
	FetchCounters(ctx context.Context, videoIDs []string) (map[string]youtube.Counters, error)
}

// Sampler runs one counters round at a time. It never retries: a failed
// batch aborts the round, and batches already applied stay applied.
type Sampler struct {
	src       CounterFetcher
	store     *series.Store
	batchSize int
	logger    *slog.Logger
}

// New constructs a Sampler.
func New(cfg *config.Config, src CounterFetcher, store *series.Store, logger *slog.Logger) *Sampler {
	batchSize := cfg.Tracker.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Sampler{
		src:       src,
		store:     store,
		batchSize: batchSize,
		logger:    logging.NewComponentLogger(logger, "sampler"),
	}
}

// SampleAll captures one sample for every video id the source reports
// counters for, all stamped with the same capturedAt instant. Ids absent
// from a response (deleted or private since discovery) are skipped, not
// zeroed: their series simply does not grow this round.
func (s *Sampler) SampleAll(ctx context.Context, videoIDs []string, capturedAt time.Time) error {
	appended := 0
	for start := 0; start < len(videoIDs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batch := videoIDs[start:end]

		counters, err := s.src.FetchCounters(ctx, batch)
		if err != nil {
			return fmt.Errorf("fetch counters for batch of %d: %w", len(batch), err)
		}

		for _, videoID := range batch {
			stats, ok := counters[videoID]
			if !ok {
				s.logger.Debug("no counters returned; skipping this round",
					logging.String(logging.FieldVideoID, videoID),
				)
				continue
			}
			s.store.Append(videoID, series.Sample{
				CapturedAt: capturedAt,
				Views:      stats.Views,
				Likes:      stats.Likes,
				Comments:   stats.Comments,
			})
			appended++
		}
	}

	s.logger.Info("sampling round complete",
		logging.Int("requested", len(videoIDs)),
		logging.Int("appended", appended),
		logging.Time("captured_at", capturedAt),
	)
	return nil
}
