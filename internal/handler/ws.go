package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

var (
	upgrader = websocket.Upgrader{
		// the token query parameter authenticates the stream
		CheckOrigin:     func(r *http.Request) bool { return true },
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeTimeout = 10 * time.Second
)

// WSMessage is a control message sent by a client.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type envelope struct {
	userID   uint
	deviceID string
	data     []byte
}

// Client is one WebSocket connection of a signed-in user.
type Client struct {
	ID     string
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *WSHub

	// pong is never closed; Send is closed by the hub when the client is dropped.
	pong chan struct{}

	mu       sync.RWMutex
	deviceID string // empty means every device of the user
}

func newClient(hub *WSHub, userID uint, conn *websocket.Conn, deviceID string) *Client {
	return &Client{
		ID:       uuid.NewString(),
		UserID:   userID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Hub:      hub,
		pong:     make(chan struct{}, 1),
		deviceID: deviceID,
	}
}

func (c *Client) wants(e envelope) bool {
	if e.userID != c.UserID {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceID == "" || e.deviceID == "" || e.deviceID == c.deviceID
}

func (c *Client) setDevice(id string) {
	c.mu.Lock()
	c.deviceID = id
	c.mu.Unlock()
}

// WSHub fans location and notification messages out to the connected clients
// of their owner. Messages come from NATS subscriptions, or directly through
// Publish when the hub itself is the bus.
type WSHub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	natsConn   *nats.Conn
	subs       []*nats.Subscription
	logger     *zap.Logger
	mu         sync.RWMutex
}

// NewWSHub creates a new WebSocket hub. nc may be nil.
func NewWSHub(nc *nats.Conn, logger *zap.Logger) *WSHub {
	return &WSHub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		natsConn:   nc,
		logger:     logger,
	}
}

// Subscribe attaches the hub to the NATS fan-out subjects.
func (h *WSHub) Subscribe() error {
	if h.natsConn == nil {
		return nil
	}
	for _, subject := range []string{service.SubjectLocationAll, service.SubjectNotificationAll} {
		sub, err := h.natsConn.Subscribe(subject, func(msg *nats.Msg) {
			_ = h.Publish(msg.Subject, msg.Data)
		})
		if err != nil {
			return err
		}
		h.subs = append(h.subs, sub)
	}
	h.logger.Info("ws hub subscribed to location and notification updates")
	return nil
}

// Publish routes a bus message to its owner's clients. It implements
// service.Publisher so the hub can stand in for NATS.
func (h *WSHub) Publish(subject string, data []byte) error {
	userID, ok := service.SubjectUser(subject)
	if !ok {
		return nil
	}
	kind := strings.Split(subject, ".")[1]

	var head struct {
		DeviceID string `json:"device_id"`
	}
	_ = json.Unmarshal(data, &head)

	msg, err := json.Marshal(map[string]interface{}{
		"type": kind,
		"data": json.RawMessage(data),
	})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- envelope{userID: userID, deviceID: head.DeviceID, data: msg}:
	case <-h.done:
	}
	return nil
}

// Run starts the hub's event loop
func (h *WSHub) Run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("ws client connected", zap.String("client_id", client.ID), zap.Uint("user_id", client.UserID), zap.Int("total", total))

		case client := <-h.unregister:
			h.remove(client)

		case e := <-h.broadcast:
			h.mu.RLock()
			targets := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				if client.wants(e) {
					targets = append(targets, client)
				}
			}
			h.mu.RUnlock()

			for _, client := range targets {
				select {
				case client.Send <- e.data:
				default:
					// slow consumer
					h.remove(client)
				}
			}
		}
	}
}

func (h *WSHub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
		h.logger.Debug("ws client disconnected", zap.String("client_id", client.ID), zap.Int("total", len(h.clients)))
	}
}

// Stop stops the hub and closes every connection.
func (h *WSHub) Stop() {
	h.stopOnce.Do(func() {
		for _, sub := range h.subs {
			_ = sub.Unsubscribe()
		}
		close(h.done)

		h.mu.Lock()
		for client := range h.clients {
			close(client.Send)
			if client.Conn != nil {
				client.Conn.Close()
			}
			delete(h.clients, client)
		}
		h.mu.Unlock()
	})
}

// GetClientCount returns the number of connected clients
func (h *WSHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ReadPump handles control messages from the client.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(64 * 1024)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Debug("ws read error", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "subscribe":
			var data struct {
				DeviceID string `json:"device_id"`
			}
			if err := json.Unmarshal(msg.Data, &data); err == nil {
				c.setDevice(data.DeviceID)
			}
		case "ping":
			select {
			case c.pong <- struct{}{}:
			default:
			}
		}
	}
}

// WritePump writes queued messages and keeps the connection alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.pong:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"pong"}`)); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// WSHandler handles WebSocket connections
type WSHandler struct {
	hub *WSHub
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(hub *WSHub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Stream upgrades to a WebSocket carrying the user's location and notification messages
// @Summary Live updates
// @Description Browsers pass the JWT as the token query parameter
// @Tags Live
// @Security BearerAuth
// @Param token query string false "JWT"
// @Param device_id query string false "Only this device"
// @Success 101
// @Router /ws [get]
func (h *WSHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h.hub, currentUser(c), conn, c.Query("device_id"))

	welcome, _ := json.Marshal(map[string]interface{}{
		"type":      "connected",
		"client_id": client.ID,
	})
	client.Send <- welcome

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// Stats returns WebSocket hub statistics
// @Summary Live connection count
// @Tags Live
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int
// @Router /ws/stats [get]
func (h *WSHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connected_clients": h.hub.GetClientCount()})
}
