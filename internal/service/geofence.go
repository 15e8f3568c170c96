package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

// GeofenceService handles geofence business logic
type GeofenceService struct {
	geofences repository.GeofenceRepository
	devices   repository.DeviceRepository
	monitor   *GeofenceMonitor
	logger    *zap.Logger
}

// NewGeofenceService creates a new geofence service. monitor may be nil.
func NewGeofenceService(geofences repository.GeofenceRepository, devices repository.DeviceRepository, monitor *GeofenceMonitor, logger *zap.Logger) *GeofenceService {
	return &GeofenceService{
		geofences: geofences,
		devices:   devices,
		monitor:   monitor,
		logger:    logger,
	}
}

// Create adds a geofence to one of the user's devices. Center defaults to the
// device's last location and radius to DefaultGeofenceRadius.
func (s *GeofenceService) Create(ctx context.Context, userID uint, req *model.CreateGeofenceRequest) (*model.Geofence, error) {
	device, err := s.devices.Get(ctx, userID, req.DeviceID)
	if err != nil {
		return nil, err
	}

	geofence := &model.Geofence{
		UserID:      userID,
		DeviceID:    device.ID,
		Name:        strings.TrimSpace(req.Name),
		Center:      device.LastLocation,
		Radius:      req.Radius,
		Description: req.Description,
	}
	if req.Center != nil {
		geofence.Center = *req.Center
	}
	if geofence.Radius <= 0 {
		geofence.Radius = model.DefaultGeofenceRadius
	}
	if err := validateLatLng(geofence.Center); err != nil {
		return nil, err
	}

	if err := s.geofences.Create(ctx, geofence); err != nil {
		return nil, fmt.Errorf("create geofence: %w", err)
	}

	s.logger.Info("geofence created",
		zap.Uint("user_id", userID),
		zap.Uint("geofence_id", geofence.ID),
		zap.String("device_id", device.ID))
	return geofence, nil
}

// List returns the user's geofences, optionally for one device.
func (s *GeofenceService) List(ctx context.Context, userID uint, deviceID string) ([]model.Geofence, error) {
	return s.geofences.List(ctx, userID, deviceID)
}

// Get returns one of the user's geofences.
func (s *GeofenceService) Get(ctx context.Context, userID, id uint) (*model.Geofence, error) {
	return s.geofences.Get(ctx, userID, id)
}

// Delete removes a geofence and its boundary state.
func (s *GeofenceService) Delete(ctx context.Context, userID, id uint) error {
	geofence, err := s.geofences.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.geofences.Delete(ctx, userID, id); err != nil {
		return err
	}
	if s.monitor != nil {
		s.monitor.ForgetGeofence(ctx, geofence)
	}
	return nil
}

// Contains reports whether p lies within the geofence circle.
func Contains(g *model.Geofence, p model.LatLng) bool {
	return DistanceMeters(g.Center, p) <= g.Radius
}

// DistanceMeters is the great-circle distance between two points.
func DistanceMeters(a, b model.LatLng) float64 {
	return geo.DistanceHaversine(toPoint(a), toPoint(b))
}

func toPoint(p model.LatLng) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

func validateLatLng(p model.LatLng) error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: coordinate out of range", ErrInvalidCoordinate)
	}
	return nil
}
