// Package metrics derives per-sample view velocity and engagement rate from
// a series snapshot. Derivation is stateless and recomputed on demand; the
// store never caches derived columns.
package metrics

import (
	"time"

	"shortspulse/internal/series"
)

// minFirstSampleHours floors the publish-to-first-sample gap so a capture at
// or before the recorded publish instant cannot divide by zero.
const minFirstSampleHours = 1e-6

// Point is one sample with its derived columns.
type Point struct {
	CapturedAt time.Time
	Views      uint64
	Likes      uint64
	Comments   uint64

	// Velocity is views-per-hour since publish for the first sample and the
	// raw signed view delta for every later sample. The source can correct
	// counters downward, so the delta may be negative; it is surfaced as-is.
	Velocity float64

	// EngagementRate is (likes+comments)/views. It is undefined when views
	// is zero; EngagementDefined distinguishes that from a genuine 0.0 rate.
	EngagementRate    float64
	EngagementDefined bool
}

// Derive computes the derived columns for every sample in the snapshot.
// Sample spacing may be irregular (an item can miss rounds); only the first
// sample's velocity normalizes by elapsed time.
func Derive(snap series.Snapshot) []Point {
	if len(snap.Samples) == 0 {
		return nil
	}

	points := make([]Point, len(snap.Samples))
	for i, sample := range snap.Samples {
		point := Point{
			CapturedAt: sample.CapturedAt,
			Views:      sample.Views,
			Likes:      sample.Likes,
			Comments:   sample.Comments,
		}

		if i == 0 {
			hours := sample.CapturedAt.Sub(snap.PublishedAt).Hours()
			if hours < minFirstSampleHours {
				hours = minFirstSampleHours
			}
			point.Velocity = float64(sample.Views) / hours
		} else {
			point.Velocity = float64(sample.Views) - float64(snap.Samples[i-1].Views)
		}

		if sample.Views > 0 {
			point.EngagementRate = float64(sample.Likes+sample.Comments) / float64(sample.Views)
			point.EngagementDefined = true
		}

		points[i] = point
	}
	return points
}

// Latest returns the most recent derived point, or false for an empty series.
func Latest(snap series.Snapshot) (Point, bool) {
	points := Derive(snap)
	if len(points) == 0 {
		return Point{}, false
	}
	return points[len(points)-1], true
}
