package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

const (
	defaultFirmwareVersion = "1.0.0"
	shadowTTL              = 24 * time.Hour
	// placement jitter for devices created without a location
	defaultJitter = 0.05
)

// DefaultDeviceLocation is where devices without a reported location are placed (San Francisco).
var DefaultDeviceLocation = model.LatLng{Lat: 37.7749, Lng: -122.4194}

// DeviceService handles device business logic
type DeviceService struct {
	devices       repository.DeviceRepository
	redis         *redis.Client
	bus           Publisher
	notifications *NotificationService
	monitor       *GeofenceMonitor
	logger        *zap.Logger
	now           func() time.Time
	random        func() float64
}

// NewDeviceService creates a new device service. monitor may be nil.
func NewDeviceService(devices repository.DeviceRepository, redisClient *redis.Client, bus Publisher, notifications *NotificationService, monitor *GeofenceMonitor, logger *zap.Logger) *DeviceService {
	if bus == nil {
		bus = NopPublisher{}
	}
	return &DeviceService{
		devices:       devices,
		redis:         redisClient,
		bus:           bus,
		notifications: notifications,
		monitor:       monitor,
		logger:        logger,
		now:           time.Now,
		random:        rand.Float64,
	}
}

func shadowKey(userID uint, deviceID string) string {
	return fmt.Sprintf("vigi:shadow:%d:%s", userID, deviceID)
}

// List returns a page of the user's devices
func (s *DeviceService) List(ctx context.Context, userID uint, q model.DeviceQuery) ([]model.Device, int64, error) {
	return s.devices.List(ctx, userID, q)
}

// Get returns one of the user's devices
func (s *DeviceService) Get(ctx context.Context, userID uint, id string) (*model.Device, error) {
	return s.devices.Get(ctx, userID, id)
}

// Create adds a device. Firmware defaults to 1.0.0; without a location the device
// is placed at a random point near DefaultDeviceLocation.
func (s *DeviceService) Create(ctx context.Context, userID uint, req *model.CreateDeviceRequest) (*model.Device, error) {
	now := s.now()
	device := &model.Device{
		ID:              strings.TrimSpace(req.ID),
		UserID:          userID,
		Name:            strings.TrimSpace(req.Name),
		Status:          model.DeviceStatusActive,
		FirmwareVersion: strings.TrimSpace(req.FirmwareVersion),
		LastSeen:        &now,
	}
	if device.FirmwareVersion == "" {
		device.FirmwareVersion = defaultFirmwareVersion
	}
	if req.Location != nil {
		if err := validateLatLng(*req.Location); err != nil {
			return nil, err
		}
		device.LastLocation = *req.Location
	} else {
		device.LastLocation = model.LatLng{
			Lat: DefaultDeviceLocation.Lat + (s.random()-0.5)*2*defaultJitter,
			Lng: DefaultDeviceLocation.Lng + (s.random()-0.5)*2*defaultJitter,
		}
	}

	if err := s.devices.Create(ctx, device); err != nil {
		return nil, err
	}

	if _, err := s.notifications.Emit(ctx, userID, device.ID, model.NotificationOnline, msgDeviceAdded, device.Name); err != nil {
		s.logger.Warn("record device added notification", zap.String("device_id", device.ID), zap.Error(err))
	}

	s.logger.Info("device created", zap.Uint("user_id", userID), zap.String("device_id", device.ID))
	return device, nil
}

// Delete removes a device with its cached state.
func (s *DeviceService) Delete(ctx context.Context, userID uint, id string) error {
	if err := s.devices.Delete(ctx, userID, id); err != nil {
		return err
	}
	if err := s.redis.Del(ctx, shadowKey(userID, id)).Err(); err != nil {
		s.logger.Warn("clear device shadow", zap.String("device_id", id), zap.Error(err))
	}
	if s.monitor != nil {
		s.monitor.Forget(ctx, userID, id)
	}
	return nil
}

// UpdateLocation ingests one telemetry sample: it stores the location, refreshes
// the shadow, publishes it, and runs the geofence monitor. A device coming back
// from Offline records an online notification.
func (s *DeviceService) UpdateLocation(ctx context.Context, userID uint, id string, upd *model.LocationUpdate) (*model.Device, error) {
	status := upd.Status
	if status == "" {
		status = model.DeviceStatusActive
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	loc := model.LatLng{Lat: upd.Lat, Lng: upd.Lng}
	if err := validateLatLng(loc); err != nil {
		return nil, err
	}

	device, err := s.devices.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	wasOffline := device.Status == model.DeviceStatusOffline

	at := s.now()
	if upd.Timestamp != nil && !upd.Timestamp.IsZero() {
		at = *upd.Timestamp
	}

	if err := s.devices.UpdateLocation(ctx, userID, id, loc, status, at); err != nil {
		return nil, err
	}
	device.LastLocation = loc
	device.Status = status
	device.LastSeen = &at

	shadow := &model.DeviceShadow{
		DeviceID:  id,
		Lat:       loc.Lat,
		Lng:       loc.Lng,
		Speed:     upd.Speed,
		Status:    status,
		Timestamp: at.Unix(),
	}
	s.storeShadow(ctx, userID, shadow)

	if wasOffline && status != model.DeviceStatusOffline {
		if _, err := s.notifications.Emit(ctx, userID, id, model.NotificationOnline, msgDeviceOnline, device.Name); err != nil {
			s.logger.Warn("record online notification", zap.String("device_id", id), zap.Error(err))
		}
	}

	if s.monitor != nil {
		if _, err := s.monitor.Check(ctx, device, loc, at); err != nil {
			s.logger.Warn("geofence check", zap.String("device_id", id), zap.Error(err))
		}
	}

	return device, nil
}

// GetShadow returns the cached latest state of a device, or nil when none is cached.
func (s *DeviceService) GetShadow(ctx context.Context, userID uint, id string) (*model.DeviceShadow, error) {
	data, err := s.redis.Get(ctx, shadowKey(userID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var shadow model.DeviceShadow
	if err := json.Unmarshal(data, &shadow); err != nil {
		return nil, err
	}
	return &shadow, nil
}

// HandleUplink processes a location message received on SubjectUplinkLocation.
func (s *DeviceService) HandleUplink(ctx context.Context, data []byte) error {
	var msg model.UplinkLocation
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decode uplink: %w", err)
	}
	if msg.UserID == 0 || msg.DeviceID == "" {
		return errors.New("uplink without user_id or device_id")
	}
	_, err := s.UpdateLocation(ctx, msg.UserID, msg.DeviceID, &msg.LocationUpdate)
	return err
}

func (s *DeviceService) storeShadow(ctx context.Context, userID uint, shadow *model.DeviceShadow) {
	data, err := json.Marshal(shadow)
	if err != nil {
		s.logger.Error("marshal shadow", zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, shadowKey(userID, shadow.DeviceID), data, shadowTTL).Err(); err != nil {
		s.logger.Warn("store device shadow", zap.String("device_id", shadow.DeviceID), zap.Error(err))
	}
	if err := s.bus.Publish(LocationSubject(userID, shadow.DeviceID), data); err != nil {
		s.logger.Warn("publish location", zap.String("device_id", shadow.DeviceID), zap.Error(err))
	}
}
