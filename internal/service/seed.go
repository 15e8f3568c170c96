package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

// Seeder loads the demo fleet.
type Seeder struct {
	store  *repository.Store
	auth   *AuthService
	logger *zap.Logger
	now    func() time.Time
}

// NewSeeder creates a seeder
func NewSeeder(store *repository.Store, auth *AuthService, logger *zap.Logger) *Seeder {
	return &Seeder{store: store, auth: auth, logger: logger, now: time.Now}
}

// Seed creates the demo account when missing and loads sample devices, trips,
// geofences and firmware releases into it. Records that already exist are kept.
func (s *Seeder) Seed(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.store.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		var resp *model.LoginResponse
		resp, err = s.auth.Register(ctx, &model.RegisterRequest{Email: email, Password: password, Name: "Demo Dispatcher"})
		if err == nil {
			user = &resp.User
		}
	}
	if err != nil {
		return nil, fmt.Errorf("demo user: %w", err)
	}

	now := s.now()
	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}

	devices := []model.Device{
		{ID: "dev-001", Name: "Cargo Truck 1", Status: model.DeviceStatusActive, FirmwareVersion: "1.2.3", LastLocation: model.LatLng{Lat: 34.0522, Lng: -118.2437}, LastSeen: ago(2 * time.Minute)},
		{ID: "dev-002", Name: "Delivery Van A", Status: model.DeviceStatusStopped, FirmwareVersion: "1.2.1", LastLocation: model.LatLng{Lat: 34.055, Lng: -118.25}, LastSeen: ago(30 * time.Minute)},
		{ID: "dev-003", Name: "Service Vehicle 7", Status: model.DeviceStatusOffline, FirmwareVersion: "1.1.0", LastLocation: model.LatLng{Lat: 34.048, Lng: -118.24}, LastSeen: ago(5 * time.Hour)},
		{ID: "dev-004", Name: "Cargo Truck 2", Status: model.DeviceStatusActive, FirmwareVersion: "1.2.3", LastLocation: model.LatLng{Lat: 34.06, Lng: -118.26}, LastSeen: ago(5 * time.Minute)},
	}
	for i := range devices {
		devices[i].UserID = user.ID
		if err := ignoreDuplicate(s.store.Devices.Create(ctx, &devices[i])); err != nil {
			return nil, fmt.Errorf("seed device %s: %w", devices[i].ID, err)
		}
	}

	trips := []model.Trip{
		{
			ID:           fmt.Sprintf("trip-001-%d", user.ID),
			DeviceID:     "dev-001",
			StartTime:    time.Date(2023, 10, 27, 9, 0, 0, 0, time.UTC),
			EndTime:      time.Date(2023, 10, 27, 10, 30, 0, 0, time.UTC),
			StartAddress: "123 Warehouse St, Los Angeles, CA",
			EndAddress:   "456 Distribution Ave, Los Angeles, CA",
			Distance:     25.5,
			Path: []model.LatLng{
				{Lat: 34.0522, Lng: -118.2437},
				{Lat: 34.053, Lng: -118.245},
				{Lat: 34.054, Lng: -118.248},
				{Lat: 34.055, Lng: -118.25},
			},
		},
		{
			ID:           fmt.Sprintf("trip-002-%d", user.ID),
			DeviceID:     "dev-001",
			StartTime:    time.Date(2023, 10, 27, 11, 0, 0, 0, time.UTC),
			EndTime:      time.Date(2023, 10, 27, 12, 0, 0, 0, time.UTC),
			StartAddress: "456 Distribution Ave, Los Angeles, CA",
			EndAddress:   "789 Client Rd, Beverly Hills, CA",
			Distance:     15.2,
			Path: []model.LatLng{
				{Lat: 34.055, Lng: -118.25},
				{Lat: 34.06, Lng: -118.3},
				{Lat: 34.0736, Lng: -118.4004},
			},
		},
	}
	for i := range trips {
		trips[i].UserID = user.ID
		if err := ignoreDuplicate(s.store.Trips.Create(ctx, &trips[i])); err != nil {
			return nil, fmt.Errorf("seed trip %s: %w", trips[i].ID, err)
		}
	}

	existing, err := s.store.Geofences.List(ctx, user.ID, "")
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		geofences := []model.Geofence{
			{UserID: user.ID, DeviceID: "dev-001", Name: "Main Warehouse", Center: model.LatLng{Lat: 34.0522, Lng: -118.2437}, Radius: 500},
			{UserID: user.ID, DeviceID: "dev-004", Name: "Port of LA", Center: model.LatLng{Lat: 33.7292, Lng: -118.262}, Radius: 2000},
		}
		for i := range geofences {
			if err := s.store.Geofences.Create(ctx, &geofences[i]); err != nil {
				return nil, fmt.Errorf("seed geofence %s: %w", geofences[i].Name, err)
			}
		}
	}

	firmware := []model.Firmware{
		{ID: "fw-001", Version: "1.2.3", ReleaseDate: time.Date(2023, 10, 15, 0, 0, 0, 0, time.UTC), Description: "Improved GPS accuracy and battery life.", URL: "/firmware/v1.2.3.bin"},
		{ID: "fw-002", Version: "1.2.1", ReleaseDate: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), Description: "Security patches and minor bug fixes.", URL: "/firmware/v1.2.1.bin"},
		{ID: "fw-003", Version: "1.1.0", ReleaseDate: time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC), Description: "Initial stable release.", URL: "/firmware/v1.1.0.bin"},
	}
	for i := range firmware {
		if err := ignoreDuplicate(s.store.Firmware.Create(ctx, &firmware[i])); err != nil {
			return nil, fmt.Errorf("seed firmware %s: %w", firmware[i].Version, err)
		}
	}

	s.logger.Info("demo data seeded", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

func ignoreDuplicate(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}
