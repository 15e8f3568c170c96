package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/config"
	"github.com/abhishekpnaik05/vigitrack/internal/flow"
	"github.com/abhishekpnaik05/vigitrack/internal/genai"
	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/notify"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

func newAssistant(env *testEnv, gen genai.Generator) *AssistantService {
	logger := zap.NewNop()
	flows := flow.NewSet(gen, notify.NewDispatcher(logger).Tools(), config.SOSContacts{SMS: "+15550100", WhatsApp: "+15550101", Email: "sos@vigitrack.local"}, logger)
	return NewAssistantService(flows, env.notifications, env.store.Devices, NewTripService(env.store.Trips, env.store.Devices), logger)
}

func ptr(f float64) *float64 { return &f }

func TestAssistantService_SOS(t *testing.T) {
	env := newTestEnv(t)
	gen := &fakeGenerator{resp: &genai.Response{
		Text: "Help is on the way.",
		ToolCalls: []genai.ToolCall{
			{Name: notify.ToolSendSMS},
			{Name: notify.ToolSendWhatsApp, Error: "failed"},
			{Name: notify.ToolSendEmail},
			{Name: notify.ToolSendSMS},
		},
	}}
	a := newAssistant(env, gen)

	res, err := a.SOS(context.Background(), env.user.ID, flow.SOSInput{Latitude: ptr(34.05), Longitude: ptr(-118.24), Message: "flat tire"})
	require.NoError(t, err)
	assert.Equal(t, "Help is on the way.", res.ConfirmationMessage)
	assert.Equal(t, []notify.Channel{notify.ChannelSMS, notify.ChannelEmail}, res.NotifiedChannels)
	assert.False(t, res.Fallback)
	assert.Len(t, gen.last.Tools, 3)

	sos := env.notificationsOf(t, model.NotificationSOS)
	require.Len(t, sos, 1)
	assert.Equal(t, "SOS Alert Triggered!", sos[0].Title)
	assert.Equal(t, `SOS raised at 34.05000, -118.24000: "flat tire"`, sos[0].Description)
	assert.Equal(t, model.IconBell, sos[0].Icon)
}

func TestAssistantService_SOSWithoutMessage(t *testing.T) {
	env := newTestEnv(t)
	a := newAssistant(env, &fakeGenerator{resp: &genai.Response{Text: "Help is on the way."}})

	_, err := a.SOS(context.Background(), env.user.ID, flow.SOSInput{Latitude: ptr(34.05), Longitude: ptr(-118.24), Message: "  "})
	require.NoError(t, err)

	sos := env.notificationsOf(t, model.NotificationSOS)
	require.Len(t, sos, 1)
	assert.Equal(t, "SOS Alert Triggered!", sos[0].Title)
	assert.Equal(t, "SOS raised at 34.05000, -118.24000. No message provided.", sos[0].Description)
}

func TestAssistantService_SOSFallbackAndFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := newAssistant(env, &fakeGenerator{}).SOS(ctx, env.user.ID, flow.SOSInput{Latitude: ptr(1), Longitude: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, flow.SOSFallbackMessage, res.ConfirmationMessage)
	assert.True(t, res.Fallback)
	assert.Empty(t, res.NotifiedChannels)

	gen := &fakeGenerator{}
	_, err = newAssistant(env, gen).SOS(ctx, env.user.ID, flow.SOSInput{Latitude: ptr(1)})
	assert.ErrorIs(t, err, flow.ErrInvalidInput)
	assert.Zero(t, gen.calls)

	_, err = newAssistant(env, &fakeGenerator{err: errors.New("boom")}).SOS(ctx, env.user.ID, flow.SOSInput{Latitude: ptr(1), Longitude: ptr(2)})
	assert.Error(t, err)

	assert.Len(t, env.notificationsOf(t, model.NotificationSOS), 2, "the alert is recorded even when generation fails")
}

func TestAssistantService_Report(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addDevice(t, "dev-001", model.DeviceStatusActive, model.LatLng{})
	gen := &fakeGenerator{resp: &genai.Response{Text: "Cargo Truck 1 drove 350 km."}}
	a := newAssistant(env, gen)

	out, err := a.Report(ctx, env.user.ID, flow.ReportInput{DeviceID: "dev-001", Timeframe: "7d"})
	require.NoError(t, err)
	assert.Equal(t, "Cargo Truck 1 drove 350 km.", out.Report)
	assert.Contains(t, gen.last.Prompt, "dev-001")

	_, err = a.Report(ctx, env.user.ID+1, flow.ReportInput{DeviceID: "dev-001", Timeframe: "7d"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = a.Report(ctx, env.user.ID, flow.ReportInput{DeviceID: "dev-001"})
	assert.ErrorIs(t, err, flow.ErrInvalidInput)
}

const threeSuggestions = `{"geofence_suggestions":[
{"name":"Warehouse","latitude":34.05,"longitude":-118.24,"radius":300},
{"name":"Client","latitude":34.07,"longitude":-118.4,"radius":200},
{"name":"Depot","latitude":34.06,"longitude":-118.3,"radius":500}]}`

func TestAssistantService_SuggestForDevice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addDevice(t, "dev-001", model.DeviceStatusActive, model.LatLng{})
	gen := &fakeGenerator{resp: &genai.Response{Text: threeSuggestions}}
	a := newAssistant(env, gen)

	_, err := a.SuggestForDevice(ctx, env.user.ID, "dev-001")
	assert.ErrorIs(t, err, ErrNotEnoughData)
	assert.Zero(t, gen.calls)

	seedTrip(t, env, "trip-001", "dev-001", time.Now(), []model.LatLng{{Lat: 34.05, Lng: -118.24}, {Lat: 34.07, Lng: -118.4}})
	out, err := a.SuggestForDevice(ctx, env.user.ID, "dev-001")
	require.NoError(t, err)
	assert.Len(t, out.GeofenceSuggestions, 3)
	assert.NotNil(t, gen.last.ResponseSchema)
}

func TestAssistantService_SummarizeStoredTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addDevice(t, "dev-001", model.DeviceStatusActive, model.LatLng{})
	seedTrip(t, env, "trip-001", "dev-001", time.Date(2023, 10, 27, 9, 0, 0, 0, time.UTC), []model.LatLng{{Lat: 34.0522, Lng: -118.2437}, {Lat: 34.055, Lng: -118.25}})
	gen := &fakeGenerator{resp: &genai.Response{Text: "A short trip downtown."}}
	a := newAssistant(env, gen)

	out, err := a.SummarizeStoredTrip(ctx, env.user.ID, "trip-001")
	require.NoError(t, err)
	assert.Equal(t, "A short trip downtown.", out.Summary)
	assert.Contains(t, gen.last.Prompt, "2023-10-27T10:00:00Z")

	_, err = a.SummarizeStoredTrip(ctx, env.user.ID, "trip-404")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
