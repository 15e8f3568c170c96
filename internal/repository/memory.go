package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
)

// NewMemoryStore builds a Store kept entirely in process memory, used when
// STORAGE_DRIVER=memory and by tests.
func NewMemoryStore() *Store {
	return &Store{
		Users:         NewMemoryUserRepo(),
		Devices:       NewMemoryDeviceRepo(),
		Trips:         NewMemoryTripRepo(),
		Geofences:     NewMemoryGeofenceRepo(),
		Notifications: NewMemoryNotificationRepo(),
		Firmware:      NewMemoryFirmwareRepo(),
		Webhooks:      NewMemoryWebhookRepo(),
	}
}

type ownedKey struct {
	userID uint
	id     string
}

// MemoryUserRepo implements UserRepository
type MemoryUserRepo struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]model.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: map[uint]model.User{}}
}

func (r *MemoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	r.nextID++
	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrNotFound
	}
	for id, u := range r.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// MemoryDeviceRepo implements DeviceRepository
type MemoryDeviceRepo struct {
	mu      sync.RWMutex
	devices map[ownedKey]model.Device
}

func NewMemoryDeviceRepo() *MemoryDeviceRepo {
	return &MemoryDeviceRepo{devices: map[ownedKey]model.Device{}}
}

func (r *MemoryDeviceRepo) List(_ context.Context, userID uint, q model.DeviceQuery) ([]model.Device, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keyword := strings.ToLower(q.Keyword)
	all := make([]model.Device, 0)
	for k, d := range r.devices {
		if k.userID != userID {
			continue
		}
		if q.Status != "" && d.Status != q.Status {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(d.Name), keyword) && !strings.Contains(strings.ToLower(d.ID), keyword) {
			continue
		}
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	offset, limit := pageBounds(q.Page, q.PageSize)
	if limit == 0 {
		return all, total, nil
	}
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *MemoryDeviceRepo) Get(_ context.Context, userID uint, id string) (*model.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[ownedKey{userID, id}]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (r *MemoryDeviceRepo) Create(_ context.Context, device *model.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownedKey{device.UserID, device.ID}
	if _, ok := r.devices[key]; ok {
		return ErrDuplicate
	}
	now := time.Now()
	if device.CreatedAt.IsZero() {
		device.CreatedAt = now
	}
	device.UpdatedAt = now
	r.devices[key] = *device
	return nil
}

func (r *MemoryDeviceRepo) UpdateLocation(_ context.Context, userID uint, id string, loc model.LatLng, status model.DeviceStatus, seen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownedKey{userID, id}
	d, ok := r.devices[key]
	if !ok {
		return ErrNotFound
	}
	d.LastLocation = loc
	d.Status = status
	d.LastSeen = &seen
	d.UpdatedAt = time.Now()
	r.devices[key] = d
	return nil
}

func (r *MemoryDeviceRepo) Delete(_ context.Context, userID uint, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownedKey{userID, id}
	if _, ok := r.devices[key]; !ok {
		return ErrNotFound
	}
	delete(r.devices, key)
	return nil
}

func (r *MemoryDeviceRepo) CountByStatus(_ context.Context, userID uint) (map[model.DeviceStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := map[model.DeviceStatus]int64{}
	for k, d := range r.devices {
		if k.userID == userID {
			counts[d.Status]++
		}
	}
	return counts, nil
}

func (r *MemoryDeviceRepo) MarkStaleOffline(_ context.Context, cutoff time.Time) ([]model.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stale []model.Device
	for k, d := range r.devices {
		if d.Status == model.DeviceStatusOffline || d.LastSeen == nil || !d.LastSeen.Before(cutoff) {
			continue
		}
		d.Status = model.DeviceStatusOffline
		d.UpdatedAt = time.Now()
		r.devices[k] = d
		stale = append(stale, d)
	}
	return stale, nil
}

// MemoryTripRepo implements TripRepository
type MemoryTripRepo struct {
	mu    sync.RWMutex
	trips map[ownedKey]model.Trip
}

func NewMemoryTripRepo() *MemoryTripRepo {
	return &MemoryTripRepo{trips: map[ownedKey]model.Trip{}}
}

func (r *MemoryTripRepo) ListByDevice(_ context.Context, userID uint, deviceID string) ([]model.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trips := make([]model.Trip, 0)
	for k, t := range r.trips {
		if k.userID == userID && t.DeviceID == deviceID {
			trips = append(trips, t)
		}
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].StartTime.After(trips[j].StartTime) })
	return trips, nil
}

func (r *MemoryTripRepo) Get(_ context.Context, userID uint, id string) (*model.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[ownedKey{userID, id}]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r *MemoryTripRepo) Create(_ context.Context, trip *model.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownedKey{trip.UserID, trip.ID}
	if _, ok := r.trips[key]; ok {
		return ErrDuplicate
	}
	r.trips[key] = *trip
	return nil
}

// MemoryGeofenceRepo implements GeofenceRepository
type MemoryGeofenceRepo struct {
	mu        sync.RWMutex
	nextID    uint
	geofences map[uint]model.Geofence
}

func NewMemoryGeofenceRepo() *MemoryGeofenceRepo {
	return &MemoryGeofenceRepo{geofences: map[uint]model.Geofence{}}
}

func (r *MemoryGeofenceRepo) List(_ context.Context, userID uint, deviceID string) ([]model.Geofence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	geofences := make([]model.Geofence, 0)
	for _, g := range r.geofences {
		if g.UserID != userID || (deviceID != "" && g.DeviceID != deviceID) {
			continue
		}
		geofences = append(geofences, g)
	}
	sort.Slice(geofences, func(i, j int) bool { return geofences[i].ID < geofences[j].ID })
	return geofences, nil
}

func (r *MemoryGeofenceRepo) Get(_ context.Context, userID uint, id uint) (*model.Geofence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.geofences[id]
	if !ok || g.UserID != userID {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (r *MemoryGeofenceRepo) Create(_ context.Context, geofence *model.Geofence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now()
	geofence.ID = r.nextID
	geofence.CreatedAt, geofence.UpdatedAt = now, now
	r.geofences[geofence.ID] = *geofence
	return nil
}

func (r *MemoryGeofenceRepo) Delete(_ context.Context, userID uint, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.geofences[id]
	if !ok || g.UserID != userID {
		return ErrNotFound
	}
	delete(r.geofences, id)
	return nil
}

// MemoryNotificationRepo implements NotificationRepository
type MemoryNotificationRepo struct {
	mu            sync.RWMutex
	nextID        uint
	notifications []model.Notification
}

func NewMemoryNotificationRepo() *MemoryNotificationRepo {
	return &MemoryNotificationRepo{}
}

func (r *MemoryNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	n.ID = r.nextID
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *MemoryNotificationRepo) ListRecent(_ context.Context, userID uint, limit int) ([]model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]model.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].Timestamp.After(list[j].Timestamp)
		}
		return list[i].ID > list[j].ID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *MemoryNotificationRepo) CountSince(_ context.Context, userID uint, types []model.NotificationType, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.notifications {
		if n.UserID != userID || n.Timestamp.Before(since) {
			continue
		}
		for _, t := range types {
			if n.Type == t {
				count++
				break
			}
		}
	}
	return count, nil
}

// MemoryFirmwareRepo implements FirmwareRepository
type MemoryFirmwareRepo struct {
	mu       sync.RWMutex
	firmware map[string]model.Firmware
}

func NewMemoryFirmwareRepo() *MemoryFirmwareRepo {
	return &MemoryFirmwareRepo{firmware: map[string]model.Firmware{}}
}

func (r *MemoryFirmwareRepo) List(_ context.Context) ([]model.Firmware, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]model.Firmware, 0, len(r.firmware))
	for _, fw := range r.firmware {
		list = append(list, fw)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ReleaseDate.After(list[j].ReleaseDate) })
	return list, nil
}

func (r *MemoryFirmwareRepo) Create(_ context.Context, fw *model.Firmware) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.firmware {
		if existing.ID == fw.ID || existing.Version == fw.Version {
			return ErrDuplicate
		}
	}
	r.firmware[fw.ID] = *fw
	return nil
}

// MemoryWebhookRepo implements WebhookRepository
type MemoryWebhookRepo struct {
	mu       sync.RWMutex
	nextID   uint
	webhooks map[uint]model.Webhook
}

func NewMemoryWebhookRepo() *MemoryWebhookRepo {
	return &MemoryWebhookRepo{webhooks: map[uint]model.Webhook{}}
}

func (r *MemoryWebhookRepo) List(_ context.Context, userID uint) ([]model.Webhook, error) {
	return r.filter(func(w model.Webhook) bool { return w.UserID == userID }), nil
}

func (r *MemoryWebhookRepo) ListActive(_ context.Context, userID uint) ([]model.Webhook, error) {
	return r.filter(func(w model.Webhook) bool {
		return w.UserID == userID && w.Status == model.WebhookStatusActive
	}), nil
}

func (r *MemoryWebhookRepo) filter(keep func(model.Webhook) bool) []model.Webhook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]model.Webhook, 0)
	for _, w := range r.webhooks {
		if keep(w) {
			list = append(list, w)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (r *MemoryWebhookRepo) Create(_ context.Context, w *model.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now()
	w.ID = r.nextID
	w.CreatedAt, w.UpdatedAt = now, now
	if w.Status == "" {
		w.Status = model.WebhookStatusActive
	}
	r.webhooks[w.ID] = *w
	return nil
}

func (r *MemoryWebhookRepo) Delete(_ context.Context, userID uint, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.webhooks[id]
	if !ok || w.UserID != userID {
		return ErrNotFound
	}
	delete(r.webhooks, id)
	return nil
}

func (r *MemoryWebhookRepo) RecordDelivery(_ context.Context, id uint, deliveryErr error, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.webhooks[id]
	if !ok {
		return ErrNotFound
	}
	w.LastTriggeredAt = &at
	if deliveryErr == nil {
		w.SuccessCount++
		w.LastError = ""
	} else {
		w.FailCount++
		w.LastError = deliveryErr.Error()
	}
	r.webhooks[id] = w
	return nil
}
