package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

func connect(h *WSHub, userID uint, deviceID string) *Client {
	c := newClient(h, userID, nil, deviceID)
	h.register <- c
	return c
}

// serveClients upgrades every request into a client of user 1 and runs its
// read loop, plus its write loop when writes is set.
func serveClients(t *testing.T, hub *WSHub, writes bool) (*websocket.Conn, *Client) {
	t.Helper()
	clients := make(chan *Client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := newClient(hub, 1, conn, "")
		hub.register <- c
		clients <- c
		if writes {
			go c.WritePump()
		}
		c.ReadPump()
	}))
	t.Cleanup(srv.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })
	return peer, <-clients
}

type pushed struct {
	Type string `json:"type"`
	Data struct {
		DeviceID string `json:"device_id"`
		Title    string `json:"title"`
	} `json:"data"`
}

func next(t *testing.T, c *Client) pushed {
	t.Helper()
	select {
	case raw, ok := <-c.Send:
		require.True(t, ok, "client was dropped")
		var msg pushed
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.ID)
	}
	return pushed{}
}

func TestWSHub_RoutesMessagesToTheirOwner(t *testing.T) {
	hub := NewWSHub(nil, zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	everyDevice := connect(hub, 1, "")
	otherDevice := connect(hub, 1, "dev-2")
	stranger := connect(hub, 2, "")
	require.Equal(t, 3, hub.GetClientCount())

	require.NoError(t, hub.Publish(service.LocationSubject(1, "dev-1"), []byte(`{"device_id":"dev-1","status":"Active"}`)))
	require.NoError(t, hub.Publish(service.NotificationSubject(1, model.NotificationOnline), []byte(`{"title":"Device Online"}`)))
	require.NoError(t, hub.Publish(service.NotificationSubject(2, model.NotificationOnline), []byte(`{"title":"Other Fleet"}`)))

	msg := next(t, everyDevice)
	assert.Equal(t, "location", msg.Type)
	assert.Equal(t, "dev-1", msg.Data.DeviceID)
	assert.Equal(t, "notification", next(t, everyDevice).Type)

	// a client watching dev-2 skips dev-1 locations but still gets notifications
	msg = next(t, otherDevice)
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, "Device Online", msg.Data.Title)

	assert.Equal(t, "Other Fleet", next(t, stranger).Data.Title)
}

func TestWSHub_IgnoresForeignSubjects(t *testing.T) {
	hub := NewWSHub(nil, zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	c := connect(hub, 1, "")
	require.NoError(t, hub.Publish("fms.location.1.dev-1", []byte(`{}`)))
	require.NoError(t, hub.Publish(service.NotificationSubject(1, model.NotificationSOS), []byte(`{"title":"SOS"}`)))

	assert.Equal(t, "SOS", next(t, c).Data.Title)
}

func TestWSHub_StopClosesClients(t *testing.T) {
	hub := NewWSHub(nil, zap.NewNop())
	go hub.Run()

	c := connect(hub, 1, "")
	hub.Stop()

	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, hub.GetClientCount())
	assert.NoError(t, hub.Publish(service.NotificationSubject(1, model.NotificationSOS), []byte(`{}`)))
}

func TestClient_PingIsAnswered(t *testing.T) {
	hub := NewWSHub(nil, zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	peer, _ := serveClients(t, hub, true)
	require.NoError(t, peer.WriteJSON(WSMessage{Type: "ping"}))

	require.NoError(t, peer.SetReadDeadline(time.Now().Add(time.Second)))
	var msg WSMessage
	require.NoError(t, peer.ReadJSON(&msg))
	assert.Equal(t, "pong", msg.Type)
}

func TestClient_PingAfterDropKeepsReading(t *testing.T) {
	hub := NewWSHub(nil, zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	peer, c := serveClients(t, hub, false)
	hub.remove(c)
	_, open := <-c.Send
	require.False(t, open)

	require.NoError(t, peer.WriteJSON(WSMessage{Type: "ping"}))
	require.NoError(t, peer.WriteJSON(WSMessage{Type: "subscribe", Data: json.RawMessage(`{"device_id":"dev-9"}`)}))

	assert.Eventually(t, func() bool {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.deviceID == "dev-9"
	}, time.Second, 10*time.Millisecond)
}
