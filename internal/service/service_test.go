package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/genai"
	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

type busMessage struct {
	subject string
	data    []byte
}

type recordingBus struct {
	mu   sync.Mutex
	msgs []busMessage
}

func (b *recordingBus) Publish(subject string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, busMessage{subject: subject, data: data})
	return nil
}

func (b *recordingBus) subjects() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.msgs))
	for i, m := range b.msgs {
		out[i] = m.subject
	}
	return out
}

type fakeGenerator struct {
	mu    sync.Mutex
	resp  *genai.Response
	err   error
	calls int
	last  *genai.Request
}

func (g *fakeGenerator) Generate(_ context.Context, req *genai.Request) (*genai.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.last = req
	if g.err != nil {
		return nil, g.err
	}
	if g.resp == nil {
		return &genai.Response{}, nil
	}
	return g.resp, nil
}

type testEnv struct {
	store         *repository.Store
	mr            *miniredis.Miniredis
	redis         *redis.Client
	bus           *recordingBus
	notifications *NotificationService
	monitor       *GeofenceMonitor
	devices       *DeviceService
	geofences     *GeofenceService
	user          *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := repository.NewMemoryStore()
	bus := &recordingBus{}
	logger := zap.NewNop()

	notifications := NewNotificationService(store.Notifications, store.Users, NewI18nService(), bus, logger)
	monitor := NewGeofenceMonitor(store.Geofences, rdb, notifications, logger)
	devices := NewDeviceService(store.Devices, rdb, bus, notifications, monitor, logger)
	geofences := NewGeofenceService(store.Geofences, store.Devices, monitor, logger)

	user := &model.User{Email: "dispatch@vigitrack.local", Name: "Dispatch", Locale: DefaultLang}
	require.NoError(t, store.Users.Create(context.Background(), user))

	return &testEnv{
		store:         store,
		mr:            mr,
		redis:         rdb,
		bus:           bus,
		notifications: notifications,
		monitor:       monitor,
		devices:       devices,
		geofences:     geofences,
		user:          user,
	}
}

func (e *testEnv) addDevice(t *testing.T, id string, status model.DeviceStatus, loc model.LatLng) *model.Device {
	t.Helper()
	seen := time.Now()
	d := &model.Device{ID: id, UserID: e.user.ID, Name: "Truck " + id, Status: status, FirmwareVersion: "1.2.3", LastLocation: loc, LastSeen: &seen}
	require.NoError(t, e.store.Devices.Create(context.Background(), d))
	return d
}

func (e *testEnv) notificationsOf(t *testing.T, typ model.NotificationType) []model.Notification {
	t.Helper()
	list, err := e.notifications.List(context.Background(), e.user.ID)
	require.NoError(t, err)
	var out []model.Notification
	for _, n := range list {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}
