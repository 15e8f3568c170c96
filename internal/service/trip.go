package service

import (
	"context"
	"time"

	"github.com/abhishekpnaik05/vigitrack/internal/flow"
	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

const (
	// maxSummaryPoints caps the samples sent to the trip summary flow.
	maxSummaryPoints = 200
	// tripSampleStep spaces samples of trips without a usable end time.
	tripSampleStep   = time.Minute
	historySampleGap = 15 * time.Minute
)

// TripService reads stored trips and turns them into flow inputs.
type TripService struct {
	trips   repository.TripRepository
	devices repository.DeviceRepository
	track   *TrackProcessor
	now     func() time.Time
}

// NewTripService creates a trip service
func NewTripService(trips repository.TripRepository, devices repository.DeviceRepository) *TripService {
	return &TripService{
		trips:   trips,
		devices: devices,
		track:   NewTrackProcessor(),
		now:     time.Now,
	}
}

// ListByDevice returns the trips of one of the user's devices, newest first.
func (s *TripService) ListByDevice(ctx context.Context, userID uint, deviceID string) ([]model.Trip, error) {
	if _, err := s.devices.Get(ctx, userID, deviceID); err != nil {
		return nil, err
	}
	return s.trips.ListByDevice(ctx, userID, deviceID)
}

// Get returns one of the user's trips.
func (s *TripService) Get(ctx context.Context, userID uint, id string) (*model.Trip, error) {
	return s.trips.Get(ctx, userID, id)
}

// tripPoints spreads the path of a trip evenly over its start and end time.
func tripPoints(trip *model.Trip) []TrackPoint {
	step := tripSampleStep
	if n := len(trip.Path); n > 1 && trip.EndTime.After(trip.StartTime) {
		step = trip.EndTime.Sub(trip.StartTime) / time.Duration(n-1)
	}
	return PathToTrackPoints(trip.Path, trip.StartTime, step)
}

// GPSData builds trip summary samples from a trip path, cleaned up and
// simplified to at most maxSummaryPoints.
func (s *TripService) GPSData(trip *model.Trip) []flow.GPSPoint {
	points := tripPoints(trip)
	points = s.track.CorrectTrack(points)
	points = s.track.SimplifyToCount(points, maxSummaryPoints)
	return toGPSPoints(points)
}

// TripTrack is the cleaned-up path of a trip.
type TripTrack struct {
	TripID    string          `json:"trip_id"`
	RawPoints int             `json:"raw_points"`
	Length    float64         `json:"length_km"`
	Points    []flow.GPSPoint `json:"points"`
}

// Track corrects the path of one of the user's trips and simplifies it to at
// most maxPoints samples. maxPoints <= 0 keeps every corrected sample.
func (s *TripService) Track(ctx context.Context, userID uint, id string, maxPoints int) (*TripTrack, error) {
	trip, err := s.trips.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	points := s.track.CorrectTrack(tripPoints(trip))
	if maxPoints > 0 {
		points = s.track.SimplifyToCount(points, maxPoints)
	}
	return &TripTrack{
		TripID:    trip.ID,
		RawPoints: len(trip.Path),
		Length:    s.track.Length(points),
		Points:    toGPSPoints(points),
	}, nil
}

// GPSHistory flattens the paths of all of a device's trips into geofence
// suggestion samples, spaced 15 minutes apart going back from now.
func (s *TripService) GPSHistory(ctx context.Context, userID uint, deviceID string) ([]flow.GPSPoint, error) {
	trips, err := s.ListByDevice(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var history []flow.GPSPoint
	for _, trip := range trips {
		for _, p := range trip.Path {
			at := now.Add(-time.Duration(len(history)) * historySampleGap)
			history = append(history, flow.GPSPoint{
				Latitude:  p.Lat,
				Longitude: p.Lng,
				Timestamp: at.UTC().Format(time.RFC3339),
			})
		}
	}
	if len(history) == 0 {
		return nil, ErrNotEnoughData
	}
	return history, nil
}

func toGPSPoints(points []TrackPoint) []flow.GPSPoint {
	out := make([]flow.GPSPoint, len(points))
	for i, p := range points {
		out[i] = flow.GPSPoint{
			Latitude:  p.Lat,
			Longitude: p.Lng,
			Timestamp: p.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	return out
}
