package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

type capturedRequest struct {
	header http.Header
	body   []byte
}

func newWebhookReceiver(t *testing.T, status int) (*httptest.Server, func() []capturedRequest) {
	t.Helper()
	var mu sync.Mutex
	var got []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, capturedRequest{header: r.Header.Clone(), body: body})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), got...)
	}
}

func TestWebhookService_DeliverSigned(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryWebhookRepo()
	s := NewWebhookService(repo, zap.NewNop())
	srv, received := newWebhookReceiver(t, http.StatusOK)

	w, err := s.Create(ctx, 1, &model.CreateWebhookRequest{Name: "ops", URL: srv.URL, Secret: "s3cret", Events: []string{"geofence-enter"}})
	require.NoError(t, err)
	assert.Equal(t, 3, w.RetryCount)
	assert.Equal(t, 10, w.Timeout)

	n := &model.Notification{ID: 9, UserID: 1, DeviceID: "dev-001", Type: model.NotificationGeofenceEnter, Title: "Geofence Entered", Timestamp: time.Now()}
	s.Deliver(ctx, n)
	s.Deliver(ctx, &model.Notification{UserID: 1, Type: model.NotificationOffline, Timestamp: time.Now()})
	s.Deliver(ctx, &model.Notification{UserID: 2, Type: model.NotificationGeofenceEnter, Timestamp: time.Now()})
	s.Wait()

	reqs := received()
	require.Len(t, reqs, 1, "only subscribed types of the owner are delivered")
	req := reqs[0]
	assert.Equal(t, "geofence-enter", req.header.Get(WebhookEventHeader))
	assert.True(t, VerifySignature(req.body, req.header.Get(WebhookTimestampHeader), req.header.Get(WebhookSignatureHeader), "s3cret"))

	var payload struct {
		EventID   string             `json:"event_id"`
		EventType string             `json:"event_type"`
		Data      model.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(req.body, &payload))
	assert.Equal(t, req.header.Get(WebhookIDHeader), payload.EventID)
	assert.Equal(t, "dev-001", payload.Data.DeviceID)

	list, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].SuccessCount)
}

func TestWebhookService_RetriesThenRecordsFailure(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryWebhookRepo()
	s := NewWebhookService(repo, zap.NewNop())
	s.retryWait = time.Millisecond
	srv, received := newWebhookReceiver(t, http.StatusInternalServerError)

	_, err := s.Create(ctx, 1, &model.CreateWebhookRequest{Name: "ops", URL: srv.URL, Events: []string{"all"}, RetryCount: 2})
	require.NoError(t, err)

	s.Deliver(ctx, &model.Notification{UserID: 1, Type: model.NotificationSOS, Timestamp: time.Now()})
	s.Wait()

	assert.Len(t, received(), 3)
	list, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, list[0].FailCount)
	assert.Contains(t, list[0].LastError, "500")
}

func TestWebhookService_CreateRejectsUnknownEvent(t *testing.T) {
	s := NewWebhookService(repository.NewMemoryWebhookRepo(), zap.NewNop())
	_, err := s.Create(context.Background(), 1, &model.CreateWebhookRequest{Name: "x", URL: "http://example.com", Events: []string{"alarm"}})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestNotificationService_DeliversToSinks(t *testing.T) {
	env := newTestEnv(t)
	srv, received := newWebhookReceiver(t, http.StatusNoContent)
	webhooks := NewWebhookService(env.store.Webhooks, zap.NewNop())
	env.notifications.AddSink(webhooks)

	_, err := webhooks.Create(context.Background(), env.user.ID, &model.CreateWebhookRequest{Name: "all", URL: srv.URL, Events: []string{"all"}})
	require.NoError(t, err)

	_, err = env.notifications.Emit(context.Background(), env.user.ID, "dev-001", model.NotificationOffline, msgDeviceOffline, "Truck", "yesterday")
	require.NoError(t, err)
	webhooks.Wait()

	assert.Len(t, received(), 1)
}

func TestNotificationService_TranslatesToUserLocale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.user.Locale = "zh-CN"
	require.NoError(t, env.store.Users.Update(ctx, env.user))

	n, err := env.notifications.Emit(ctx, env.user.ID, "dev-001", model.NotificationOffline, msgDeviceOffline, "Truck", "yesterday")
	require.NoError(t, err)
	assert.Equal(t, "设备离线", n.Title)
	assert.Equal(t, "text-red-500", n.IconColor)
}

func TestWebhookService_CloseDrainsAndDropsLateDeliveries(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryWebhookRepo()
	s := NewWebhookService(repo, zap.NewNop())
	srv, received := newWebhookReceiver(t, http.StatusOK)

	_, err := s.Create(ctx, 1, &model.CreateWebhookRequest{Name: "ops", URL: srv.URL, Events: []string{"all"}})
	require.NoError(t, err)

	s.Deliver(ctx, &model.Notification{UserID: 1, Type: model.NotificationSOS, Timestamp: time.Now()})
	s.Close()
	require.Len(t, received(), 1, "in-flight deliveries finish before Close returns")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Deliver(ctx, &model.Notification{UserID: 1, Type: model.NotificationOffline, Timestamp: time.Now()})
		}()
	}
	wg.Wait()
	s.Wait()

	assert.Len(t, received(), 1)
	list, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, list[0].SuccessCount)
}
