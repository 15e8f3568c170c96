package repository

import (
	"context"
	"errors"
	"time"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("record already exists")
)

// UserRepository stores dashboard accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// DeviceRepository stores devices. Every method is scoped to one owner except
// MarkStaleOffline, which runs for the whole fleet.
type DeviceRepository interface {
	List(ctx context.Context, userID uint, q model.DeviceQuery) ([]model.Device, int64, error)
	Get(ctx context.Context, userID uint, id string) (*model.Device, error)
	Create(ctx context.Context, device *model.Device) error
	UpdateLocation(ctx context.Context, userID uint, id string, loc model.LatLng, status model.DeviceStatus, seen time.Time) error
	Delete(ctx context.Context, userID uint, id string) error
	CountByStatus(ctx context.Context, userID uint) (map[model.DeviceStatus]int64, error)
	// MarkStaleOffline flips devices last seen before cutoff to Offline and returns them.
	MarkStaleOffline(ctx context.Context, cutoff time.Time) ([]model.Device, error)
}

// TripRepository stores completed trips.
type TripRepository interface {
	ListByDevice(ctx context.Context, userID uint, deviceID string) ([]model.Trip, error)
	Get(ctx context.Context, userID uint, id string) (*model.Trip, error)
	Create(ctx context.Context, trip *model.Trip) error
}

// GeofenceRepository stores geofences.
type GeofenceRepository interface {
	// List returns the user's geofences, filtered to deviceID when it is not empty.
	List(ctx context.Context, userID uint, deviceID string) ([]model.Geofence, error)
	Get(ctx context.Context, userID uint, id uint) (*model.Geofence, error)
	Create(ctx context.Context, geofence *model.Geofence) error
	Delete(ctx context.Context, userID uint, id uint) error
}

// NotificationRepository stores notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// ListRecent returns the newest notifications first.
	ListRecent(ctx context.Context, userID uint, limit int) ([]model.Notification, error)
	CountSince(ctx context.Context, userID uint, types []model.NotificationType, since time.Time) (int64, error)
}

// FirmwareRepository stores OTA firmware releases.
type FirmwareRepository interface {
	List(ctx context.Context) ([]model.Firmware, error)
	Create(ctx context.Context, fw *model.Firmware) error
}

// WebhookRepository stores notification webhooks.
type WebhookRepository interface {
	List(ctx context.Context, userID uint) ([]model.Webhook, error)
	ListActive(ctx context.Context, userID uint) ([]model.Webhook, error)
	Create(ctx context.Context, w *model.Webhook) error
	Delete(ctx context.Context, userID uint, id uint) error
	RecordDelivery(ctx context.Context, id uint, deliveryErr error, at time.Time) error
}

// Store bundles the repositories the services depend on.
type Store struct {
	Users         UserRepository
	Devices       DeviceRepository
	Trips         TripRepository
	Geofences     GeofenceRepository
	Notifications NotificationRepository
	Firmware      FirmwareRepository
	Webhooks      WebhookRepository
}

func pageBounds(page, size int) (offset, limit int) {
	if size <= 0 {
		return 0, 0
	}
	if page <= 0 {
		page = 1
	}
	return (page - 1) * size, size
}
