package service

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

const (
	mapZoom    = 13
	alertsSpan = 24 * time.Hour
)

// DefaultMapCenter is used when the user has no devices (Los Angeles).
var DefaultMapCenter = model.LatLng{Lat: 34.0522, Lng: -118.2437}

// DashboardStats are the summary cards of the dashboard.
type DashboardStats struct {
	TotalDevices   int64 `json:"total_devices"`
	ActiveDevices  int64 `json:"active_devices"`
	StoppedDevices int64 `json:"stopped_devices"`
	OfflineDevices int64 `json:"offline_devices"`
	// Alerts counts geofence notifications of the last 24 hours.
	Alerts int64 `json:"alerts"`
}

// MapMarker is one device on the map.
type MapMarker struct {
	DeviceID string             `json:"device_id"`
	Name     string             `json:"name"`
	Status   model.DeviceStatus `json:"status"`
	Position model.LatLng       `json:"position"`
}

// MapView is an OpenStreetMap link centered on the fleet.
type MapView struct {
	Center  model.LatLng `json:"center"`
	Zoom    int          `json:"zoom"`
	URL     string       `json:"url"`
	Markers []MapMarker  `json:"markers"`
}

// Dashboard is the dashboard page payload.
type Dashboard struct {
	Stats DashboardStats `json:"stats"`
	Map   MapView        `json:"map"`
}

// DashboardService aggregates fleet statistics
type DashboardService struct {
	devices       repository.DeviceRepository
	notifications repository.NotificationRepository
	now           func() time.Time
}

// NewDashboardService creates a dashboard service
func NewDashboardService(devices repository.DeviceRepository, notifications repository.NotificationRepository) *DashboardService {
	return &DashboardService{devices: devices, notifications: notifications, now: time.Now}
}

// Stats counts the user's devices by status and recent geofence alerts.
func (s *DashboardService) Stats(ctx context.Context, userID uint) (*DashboardStats, error) {
	counts, err := s.devices.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count devices: %w", err)
	}

	alerts, err := s.notifications.CountSince(ctx, userID,
		[]model.NotificationType{model.NotificationGeofenceEnter, model.NotificationGeofenceExit},
		s.now().Add(-alertsSpan))
	if err != nil {
		return nil, fmt.Errorf("count alerts: %w", err)
	}

	stats := &DashboardStats{
		ActiveDevices:  counts[model.DeviceStatusActive],
		StoppedDevices: counts[model.DeviceStatusStopped],
		OfflineDevices: counts[model.DeviceStatusOffline],
		Alerts:         alerts,
	}
	for _, n := range counts {
		stats.TotalDevices += n
	}
	return stats, nil
}

// Map centers on the user's first device, or DefaultMapCenter without devices.
func (s *DashboardService) Map(ctx context.Context, userID uint) (*MapView, error) {
	devices, _, err := s.devices.List(ctx, userID, model.DeviceQuery{})
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	view := &MapView{
		Center:  DefaultMapCenter,
		Zoom:    mapZoom,
		Markers: make([]MapMarker, 0, len(devices)),
	}
	if len(devices) > 0 {
		view.Center = devices[0].LastLocation
	}
	for _, d := range devices {
		view.Markers = append(view.Markers, MapMarker{
			DeviceID: d.ID,
			Name:     d.Name,
			Status:   d.Status,
			Position: d.LastLocation,
		})
	}
	view.URL = MapURL(view.Center, view.Zoom)
	return view, nil
}

// Get returns the full dashboard.
func (s *DashboardService) Get(ctx context.Context, userID uint) (*Dashboard, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	view, err := s.Map(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: *stats, Map: *view}, nil
}

// MapURL links to OpenStreetMap at center.
func MapURL(center model.LatLng, zoom int) string {
	return fmt.Sprintf("https://www.openstreetmap.org/#map=%d/%g/%g", zoom, center.Lat, center.Lng)
}
