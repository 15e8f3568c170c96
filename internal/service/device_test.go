package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

func TestDeviceService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	env.devices.random = func() float64 { return 1.0 }

	d, err := env.devices.Create(context.Background(), env.user.ID, &model.CreateDeviceRequest{ID: "dev-005", Name: "Cargo Truck 3"})
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", d.FirmwareVersion)
	assert.Equal(t, model.DeviceStatusActive, d.Status)
	assert.NotNil(t, d.LastSeen)
	assert.InDelta(t, 37.7749+0.05, d.LastLocation.Lat, 1e-9)
	assert.InDelta(t, -122.4194+0.05, d.LastLocation.Lng, 1e-9)

	added := env.notificationsOf(t, model.NotificationOnline)
	require.Len(t, added, 1)
	assert.Equal(t, "Device Added", added[0].Title)
	assert.Equal(t, "Cargo Truck 3 has been added to your fleet.", added[0].Description)
	assert.Equal(t, model.IconTruck, added[0].Icon)
	assert.Contains(t, env.bus.subjects(), NotificationSubject(env.user.ID, model.NotificationOnline))
}

func TestDeviceService_CreateWithLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d, err := env.devices.Create(ctx, env.user.ID, &model.CreateDeviceRequest{
		ID: "dev-006", Name: "Van", FirmwareVersion: "2.0.0", Location: &model.LatLng{Lat: 34.05, Lng: -118.24},
	})
	require.NoError(t, err)
	assert.Equal(t, model.LatLng{Lat: 34.05, Lng: -118.24}, d.LastLocation)
	assert.Equal(t, "2.0.0", d.FirmwareVersion)

	_, err = env.devices.Create(ctx, env.user.ID, &model.CreateDeviceRequest{ID: "dev-006", Name: "Again"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = env.devices.Create(ctx, env.user.ID, &model.CreateDeviceRequest{ID: "dev-007", Name: "Bad", Location: &model.LatLng{Lat: 91}})
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestDeviceService_DeleteRemovesFromList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addDevice(t, "dev-001", model.DeviceStatusActive, model.LatLng{Lat: 34.0522, Lng: -118.2437})
	env.addDevice(t, "dev-002", model.DeviceStatusStopped, model.LatLng{Lat: 34.055, Lng: -118.25})

	require.NoError(t, env.devices.Delete(ctx, env.user.ID, "dev-001"))

	list, total, err := env.devices.List(ctx, env.user.ID, model.DeviceQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "dev-002", list[0].ID)

	assert.ErrorIs(t, env.devices.Delete(ctx, env.user.ID, "dev-001"), repository.ErrNotFound)
	assert.ErrorIs(t, env.devices.Delete(ctx, env.user.ID+1, "dev-002"), repository.ErrNotFound, "foreign devices cannot be deleted")
}

func TestDeviceService_UpdateLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addDevice(t, "dev-001", model.DeviceStatusActive, model.LatLng{Lat: 34.0522, Lng: -118.2437})

	at := time.Date(2024, 7, 20, 10, 0, 0, 0, time.UTC)
	d, err := env.devices.UpdateLocation(ctx, env.user.ID, "dev-001", &model.LocationUpdate{
		Lat: 34.06, Lng: -118.25, Speed: 42, Status: model.DeviceStatusStopped, Timestamp: &at,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DeviceStatusStopped, d.Status)
	assert.Equal(t, at, *d.LastSeen)

	stored, err := env.store.Devices.Get(ctx, env.user.ID, "dev-001")
	require.NoError(t, err)
	assert.Equal(t, model.LatLng{Lat: 34.06, Lng: -118.25}, stored.LastLocation)

	shadow, err := env.devices.GetShadow(ctx, env.user.ID, "dev-001")
	require.NoError(t, err)
	require.NotNil(t, shadow)
	assert.Equal(t, 42.0, shadow.Speed)
	assert.Equal(t, at.Unix(), shadow.Timestamp)
	assert.Contains(t, env.bus.subjects(), LocationSubject(env.user.ID, "dev-001"))

	_, err = env.devices.UpdateLocation(ctx, env.user.ID, "dev-001", &model.LocationUpdate{Lat: 1, Lng: 1, Status: "Flying"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = env.devices.UpdateLocation(ctx, env.user.ID, "missing", &model.LocationUpdate{Lat: 1, Lng: 1})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	none, err := env.devices.GetShadow(ctx, env.user.ID, "missing")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDeviceService_BackOnline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addDevice(t, "dev-003", model.DeviceStatusOffline, model.LatLng{Lat: 34.048, Lng: -118.24})

	_, err := env.devices.UpdateLocation(ctx, env.user.ID, "dev-003", &model.LocationUpdate{Lat: 34.048, Lng: -118.24})
	require.NoError(t, err)
	_, err = env.devices.UpdateLocation(ctx, env.user.ID, "dev-003", &model.LocationUpdate{Lat: 34.049, Lng: -118.24})
	require.NoError(t, err)

	online := env.notificationsOf(t, model.NotificationOnline)
	require.Len(t, online, 1)
	assert.Equal(t, "Device Online", online[0].Title)
}

func TestDeviceService_HandleUplink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addDevice(t, "dev-001", model.DeviceStatusActive, model.LatLng{})

	payload := []byte(`{"user_id":1,"device_id":"dev-001","lat":10.5,"lng":20.25,"status":"Active"}`)
	require.NoError(t, env.devices.HandleUplink(ctx, payload))

	d, err := env.store.Devices.Get(ctx, env.user.ID, "dev-001")
	require.NoError(t, err)
	assert.Equal(t, model.LatLng{Lat: 10.5, Lng: 20.25}, d.LastLocation)

	assert.Error(t, env.devices.HandleUplink(ctx, []byte(`{"device_id":"dev-001"}`)))
	assert.Error(t, env.devices.HandleUplink(ctx, []byte(`not json`)))
}
