package api

import (
	"shortspulse/internal/engine"
	"shortspulse/internal/metrics"
	"shortspulse/internal/series"
)

// FromEngineState flattens the engine's state view for the wire.
func FromEngineState(view engine.StateView) RunState {
	return RunState{
		Phase:         string(view.Phase),
		Ready:         view.Ready,
		StartedAt:     view.StartedAt,
		WindowStart:   view.WindowStart,
		TrackedVideos: view.TrackedVideos,
		LastSampleAt:  view.LastSampleAt,
		NextSampleAt:  view.NextSampleAt,
		FatalError:    view.FatalError,
	}
}

// FromSnapshot derives a video's full history view.
func FromSnapshot(snap series.Snapshot) SeriesView {
	points := metrics.Derive(snap)
	view := SeriesView{
		VideoID:      snap.VideoID,
		ChannelTitle: snap.ChannelTitle,
		PublishedAt:  snap.PublishedAt,
	}
	if len(points) > 0 {
		view.Points = make([]SeriesPoint, len(points))
		for i, point := range points {
			view.Points[i] = fromPoint(point)
		}
	}
	return view
}

// VideoViewFromSnapshot builds the dashboard row for one video.
func VideoViewFromSnapshot(snap series.Snapshot) VideoView {
	view := VideoView{
		VideoID:      snap.VideoID,
		ChannelTitle: snap.ChannelTitle,
		PublishedAt:  snap.PublishedAt,
		SampleCount:  len(snap.Samples),
	}
	latest, ok := metrics.Latest(snap)
	if !ok {
		return view
	}
	view.HasSamples = true
	view.CapturedAt = latest.CapturedAt
	view.Views = latest.Views
	view.Likes = latest.Likes
	view.Comments = latest.Comments
	view.Velocity = latest.Velocity
	view.EngagementRate = latest.EngagementRate
	view.EngagementDefined = latest.EngagementDefined
	return view
}

func fromPoint(point metrics.Point) SeriesPoint {
	return SeriesPoint{
		CapturedAt:        point.CapturedAt,
		Views:             point.Views,
		Likes:             point.Likes,
		Comments:          point.Comments,
		Velocity:          point.Velocity,
		EngagementRate:    point.EngagementRate,
		EngagementDefined: point.EngagementDefined,
	}
}
