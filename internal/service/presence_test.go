package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
)

func TestPresenceChecker_Sweep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stale := time.Now().Add(-time.Hour)
	require.NoError(t, env.store.Devices.Create(ctx, &model.Device{ID: "dev-001", UserID: env.user.ID, Name: "Old", Status: model.DeviceStatusActive, LastSeen: &stale}))
	env.addDevice(t, "dev-002", model.DeviceStatusActive, model.LatLng{})

	p := NewPresenceChecker(env.store.Devices, env.notifications, 15*time.Minute, "@every 1m", zap.NewNop())

	marked, err := p.Sweep(ctx)
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, "dev-001", marked[0].ID)

	again, err := p.Sweep(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	d, err := env.store.Devices.Get(ctx, env.user.ID, "dev-001")
	require.NoError(t, err)
	assert.Equal(t, model.DeviceStatusOffline, d.Status)

	offline := env.notificationsOf(t, model.NotificationOffline)
	require.Len(t, offline, 1)
	assert.Equal(t, "Device Offline", offline[0].Title)
	assert.Equal(t, model.IconWifiOff, offline[0].Icon)
}

func TestPresenceChecker_StartRejectsBadSchedule(t *testing.T) {
	env := newTestEnv(t)
	p := NewPresenceChecker(env.store.Devices, env.notifications, time.Minute, "not a schedule", zap.NewNop())
	assert.Error(t, p.Start())

	ok := NewPresenceChecker(env.store.Devices, env.notifications, time.Minute, "@every 1h", zap.NewNop())
	require.NoError(t, ok.Start())
	ok.Stop()
}
