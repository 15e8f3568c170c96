package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

// GeofenceMonitor detects boundary crossings from location updates. The last
// known inside/outside state per device is kept in a Redis hash keyed by geofence ID.
type GeofenceMonitor struct {
	geofences     repository.GeofenceRepository
	redis         *redis.Client
	notifications *NotificationService
	logger        *zap.Logger
}

// NewGeofenceMonitor creates a geofence monitor
func NewGeofenceMonitor(geofences repository.GeofenceRepository, redisClient *redis.Client, notifications *NotificationService, logger *zap.Logger) *GeofenceMonitor {
	return &GeofenceMonitor{
		geofences:     geofences,
		redis:         redisClient,
		notifications: notifications,
		logger:        logger,
	}
}

func geofenceStateKey(userID uint, deviceID string) string {
	return fmt.Sprintf("vigi:geofence:state:%d:%s", userID, deviceID)
}

// Check compares loc against every geofence of the device and records an enter
// or exit notification for each boundary crossed. A device with no recorded
// state counts as outside.
func (m *GeofenceMonitor) Check(ctx context.Context, device *model.Device, loc model.LatLng, at time.Time) ([]model.GeofenceTransition, error) {
	geofences, err := m.geofences.List(ctx, device.UserID, device.ID)
	if err != nil {
		return nil, fmt.Errorf("list geofences: %w", err)
	}
	if len(geofences) == 0 {
		return nil, nil
	}

	key := geofenceStateKey(device.UserID, device.ID)
	state, err := m.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("load geofence state: %w", err)
	}

	var transitions []model.GeofenceTransition
	updates := make(map[string]interface{})
	for i := range geofences {
		g := geofences[i]
		field := strconv.FormatUint(uint64(g.ID), 10)
		wasInside := state[field] == "1"
		inside := Contains(&g, loc)
		if inside == wasInside {
			continue
		}

		if inside {
			updates[field] = "1"
		} else {
			updates[field] = "0"
		}
		transitions = append(transitions, model.GeofenceTransition{
			Geofence: g,
			DeviceID: device.ID,
			Entered:  inside,
			Location: loc,
			At:       at,
		})
	}

	if len(updates) == 0 {
		return nil, nil
	}
	if err := m.redis.HSet(ctx, key, updates).Err(); err != nil {
		return nil, fmt.Errorf("save geofence state: %w", err)
	}

	for _, t := range transitions {
		m.notify(ctx, device, t)
	}
	return transitions, nil
}

func (m *GeofenceMonitor) notify(ctx context.Context, device *model.Device, t model.GeofenceTransition) {
	typ, key := model.NotificationGeofenceExit, msgGeofenceExit
	if t.Entered {
		typ, key = model.NotificationGeofenceEnter, msgGeofenceEnter
	}

	if _, err := m.notifications.Emit(ctx, device.UserID, device.ID, typ, key, device.Name, t.Geofence.Name); err != nil {
		m.logger.Error("record geofence notification",
			zap.String("device_id", device.ID),
			zap.Uint("geofence_id", t.Geofence.ID),
			zap.Error(err))
		return
	}

	m.logger.Info("geofence crossed",
		zap.Uint("user_id", device.UserID),
		zap.String("device_id", device.ID),
		zap.String("geofence", t.Geofence.Name),
		zap.Bool("entered", t.Entered))
}

// Forget drops the boundary state of a device.
func (m *GeofenceMonitor) Forget(ctx context.Context, userID uint, deviceID string) {
	if err := m.redis.Del(ctx, geofenceStateKey(userID, deviceID)).Err(); err != nil {
		m.logger.Warn("clear geofence state", zap.String("device_id", deviceID), zap.Error(err))
	}
}

// ForgetGeofence drops the state of one geofence.
func (m *GeofenceMonitor) ForgetGeofence(ctx context.Context, g *model.Geofence) {
	field := strconv.FormatUint(uint64(g.ID), 10)
	if err := m.redis.HDel(ctx, geofenceStateKey(g.UserID, g.DeviceID), field).Err(); err != nil {
		m.logger.Warn("clear geofence state", zap.Uint("geofence_id", g.ID), zap.Error(err))
	}
}
