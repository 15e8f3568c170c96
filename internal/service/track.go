package service

import (
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/simplify"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
)

// TrackPoint is a timestamped position on a trip path.
type TrackPoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackProcessor cleans up and simplifies trip paths
type TrackProcessor struct {
	// MaxSpeed is the fastest plausible movement between two samples (km/h)
	MaxSpeed float64
	// MinDistance drops samples closer than this to the previous one (meters)
	MinDistance float64
}

// NewTrackProcessor creates a track processor with default thresholds
func NewTrackProcessor() *TrackProcessor {
	return &TrackProcessor{
		MaxSpeed:    200.0,
		MinDistance: 5.0,
	}
}

// PathToTrackPoints spaces path points step apart starting at start.
func PathToTrackPoints(path []model.LatLng, start time.Time, step time.Duration) []TrackPoint {
	points := make([]TrackPoint, len(path))
	for i, p := range path {
		points[i] = TrackPoint{Lat: p.Lat, Lng: p.Lng, Timestamp: start.Add(time.Duration(i) * step)}
	}
	return points
}

// CorrectTrack sorts points by time and drops duplicates and speed outliers.
func (tp *TrackProcessor) CorrectTrack(points []TrackPoint) []TrackPoint {
	if len(points) < 2 {
		return points
	}

	sorted := make([]TrackPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	result := make([]TrackPoint, 0, len(sorted))
	result = append(result, sorted[0])
	for _, curr := range sorted[1:] {
		prev := result[len(result)-1]
		if curr.Timestamp.Equal(prev.Timestamp) {
			continue
		}

		dist := geo.DistanceHaversine(trackPoint(prev), trackPoint(curr))
		if dist < tp.MinDistance {
			continue
		}

		hours := curr.Timestamp.Sub(prev.Timestamp).Hours()
		if hours > 0 && (dist/1000)/hours > tp.MaxSpeed {
			continue
		}

		result = append(result, curr)
	}
	return result
}

// SimplifyToCount reduces points with Douglas-Peucker until at most target remain.
// The first and last points are always kept.
func (tp *TrackProcessor) SimplifyToCount(points []TrackPoint, target int) []TrackPoint {
	if len(points) <= target || target < 2 {
		return points
	}

	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = trackPoint(p)
	}

	// threshold is in degrees; binary search for the smallest that fits
	low, high := 0.0, 1.0
	best := points[:0:0]
	for i := 0; i < 30; i++ {
		mid := (low + high) / 2
		simplified := simplify.DouglasPeucker(mid).LineString(ls.Clone())
		if len(simplified) > target {
			low = mid
			continue
		}
		high = mid
		best = matchPoints(points, simplified)
	}
	if len(best) == 0 {
		best = matchPoints(points, simplify.DouglasPeucker(high).LineString(ls.Clone()))
	}
	return best
}

// Length is the total path length in kilometers.
func (tp *TrackProcessor) Length(points []TrackPoint) float64 {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = trackPoint(p)
	}
	return geo.LengthHaversine(ls) / 1000
}

// matchPoints maps a simplified line, a subsequence of points, back to the
// original timestamped points.
func matchPoints(points []TrackPoint, simplified orb.LineString) []TrackPoint {
	result := make([]TrackPoint, 0, len(simplified))
	j := 0
	for _, sp := range simplified {
		for j < len(points) && trackPoint(points[j]) != sp {
			j++
		}
		if j == len(points) {
			break
		}
		result = append(result, points[j])
		j++
	}
	return result
}

func trackPoint(p TrackPoint) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}
