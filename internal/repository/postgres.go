package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
)

// NewPostgresStore builds a Store over a gorm connection. The connection should
// be opened with TranslateError so unique violations map to ErrDuplicate.
func NewPostgresStore(db *gorm.DB) *Store {
	return &Store{
		Users:         &PostgresUserRepo{db: db},
		Devices:       &PostgresDeviceRepo{db: db},
		Trips:         &PostgresTripRepo{db: db},
		Geofences:     &PostgresGeofenceRepo{db: db},
		Notifications: &PostgresNotificationRepo{db: db},
		Firmware:      &PostgresFirmwareRepo{db: db},
		Webhooks:      &PostgresWebhookRepo{db: db},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func affected(tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PostgresUserRepo implements UserRepository
type PostgresUserRepo struct {
	db *gorm.DB
}

func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *PostgresUserRepo) Update(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error)
}

// PostgresDeviceRepo implements DeviceRepository
type PostgresDeviceRepo struct {
	db *gorm.DB
}

func (r *PostgresDeviceRepo) List(ctx context.Context, userID uint, q model.DeviceQuery) ([]model.Device, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Device{}).Where("user_id = ?", userID)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Keyword != "" {
		like := "%" + q.Keyword + "%"
		query = query.Where("(name ILIKE ? OR id ILIKE ?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var devices []model.Device
	query = query.Order("created_at ASC, id ASC")
	if offset, limit := pageBounds(q.Page, q.PageSize); limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&devices).Error; err != nil {
		return nil, 0, err
	}
	return devices, total, nil
}

func (r *PostgresDeviceRepo) Get(ctx context.Context, userID uint, id string) (*model.Device, error) {
	var device model.Device
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&device).Error; err != nil {
		return nil, translate(err)
	}
	return &device, nil
}

func (r *PostgresDeviceRepo) Create(ctx context.Context, device *model.Device) error {
	return translate(r.db.WithContext(ctx).Create(device).Error)
}

func (r *PostgresDeviceRepo) UpdateLocation(ctx context.Context, userID uint, id string, loc model.LatLng, status model.DeviceStatus, seen time.Time) error {
	tx := r.db.WithContext(ctx).Model(&model.Device{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(map[string]interface{}{
			"last_lat":  loc.Lat,
			"last_lng":  loc.Lng,
			"status":    status,
			"last_seen": seen,
		})
	return affected(tx)
}

func (r *PostgresDeviceRepo) Delete(ctx context.Context, userID uint, id string) error {
	return affected(r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.Device{}))
}

func (r *PostgresDeviceRepo) CountByStatus(ctx context.Context, userID uint) (map[model.DeviceStatus]int64, error) {
	var rows []struct {
		Status model.DeviceStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Device{}).
		Select("status, count(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.DeviceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *PostgresDeviceRepo) MarkStaleOffline(ctx context.Context, cutoff time.Time) ([]model.Device, error) {
	var devices []model.Device
	err := r.db.WithContext(ctx).Model(&devices).
		Clauses(clause.Returning{}).
		Where("status <> ? AND last_seen IS NOT NULL AND last_seen < ?", model.DeviceStatusOffline, cutoff).
		Update("status", model.DeviceStatusOffline).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// PostgresTripRepo implements TripRepository
type PostgresTripRepo struct {
	db *gorm.DB
}

func (r *PostgresTripRepo) ListByDevice(ctx context.Context, userID uint, deviceID string) ([]model.Trip, error) {
	var trips []model.Trip
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Order("start_time DESC").
		Find(&trips).Error
	return trips, err
}

func (r *PostgresTripRepo) Get(ctx context.Context, userID uint, id string) (*model.Trip, error) {
	var trip model.Trip
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&trip).Error; err != nil {
		return nil, translate(err)
	}
	return &trip, nil
}

func (r *PostgresTripRepo) Create(ctx context.Context, trip *model.Trip) error {
	return translate(r.db.WithContext(ctx).Create(trip).Error)
}

// PostgresGeofenceRepo implements GeofenceRepository
type PostgresGeofenceRepo struct {
	db *gorm.DB
}

func (r *PostgresGeofenceRepo) List(ctx context.Context, userID uint, deviceID string) ([]model.Geofence, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if deviceID != "" {
		query = query.Where("device_id = ?", deviceID)
	}
	var geofences []model.Geofence
	err := query.Order("id ASC").Find(&geofences).Error
	return geofences, err
}

func (r *PostgresGeofenceRepo) Get(ctx context.Context, userID uint, id uint) (*model.Geofence, error) {
	var geofence model.Geofence
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&geofence).Error; err != nil {
		return nil, translate(err)
	}
	return &geofence, nil
}

func (r *PostgresGeofenceRepo) Create(ctx context.Context, geofence *model.Geofence) error {
	return translate(r.db.WithContext(ctx).Create(geofence).Error)
}

func (r *PostgresGeofenceRepo) Delete(ctx context.Context, userID uint, id uint) error {
	return affected(r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.Geofence{}))
}

// PostgresNotificationRepo implements NotificationRepository
type PostgresNotificationRepo struct {
	db *gorm.DB
}

func (r *PostgresNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return translate(r.db.WithContext(ctx).Create(n).Error)
}

func (r *PostgresNotificationRepo) ListRecent(ctx context.Context, userID uint, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *PostgresNotificationRepo) CountSince(ctx context.Context, userID uint, types []model.NotificationType, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND type IN ? AND timestamp >= ?", userID, types, since).
		Count(&count).Error
	return count, err
}

// PostgresFirmwareRepo implements FirmwareRepository
type PostgresFirmwareRepo struct {
	db *gorm.DB
}

func (r *PostgresFirmwareRepo) List(ctx context.Context) ([]model.Firmware, error) {
	var firmware []model.Firmware
	err := r.db.WithContext(ctx).Order("release_date DESC").Find(&firmware).Error
	return firmware, err
}

func (r *PostgresFirmwareRepo) Create(ctx context.Context, fw *model.Firmware) error {
	return translate(r.db.WithContext(ctx).Create(fw).Error)
}

// PostgresWebhookRepo implements WebhookRepository
type PostgresWebhookRepo struct {
	db *gorm.DB
}

func (r *PostgresWebhookRepo) List(ctx context.Context, userID uint) ([]model.Webhook, error) {
	var webhooks []model.Webhook
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&webhooks).Error
	return webhooks, err
}

func (r *PostgresWebhookRepo) ListActive(ctx context.Context, userID uint) ([]model.Webhook, error) {
	var webhooks []model.Webhook
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.WebhookStatusActive).
		Find(&webhooks).Error
	return webhooks, err
}

func (r *PostgresWebhookRepo) Create(ctx context.Context, w *model.Webhook) error {
	return translate(r.db.WithContext(ctx).Create(w).Error)
}

func (r *PostgresWebhookRepo) Delete(ctx context.Context, userID uint, id uint) error {
	return affected(r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.Webhook{}))
}

func (r *PostgresWebhookRepo) RecordDelivery(ctx context.Context, id uint, deliveryErr error, at time.Time) error {
	updates := map[string]interface{}{"last_triggered_at": at}
	if deliveryErr == nil {
		updates["success_count"] = gorm.Expr("success_count + 1")
		updates["last_error"] = ""
	} else {
		updates["fail_count"] = gorm.Expr("fail_count + 1")
		updates["last_error"] = deliveryErr.Error()
	}
	return r.db.WithContext(ctx).Model(&model.Webhook{}).Where("id = ?", id).Updates(updates).Error
}
