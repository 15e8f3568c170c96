package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
)

// Event log stream.
const (
	StreamEvents       = "VIGI_EVENTS"
	streamEventsPrefix = "vigi.events"
)

// EventLog persists notifications and SOS events to a JetStream stream.
type EventLog struct {
	js     nats.JetStreamContext
	logger *zap.Logger
}

// NewEventLog creates or updates the event stream.
func NewEventLog(nc *nats.Conn, logger *zap.Logger) (*EventLog, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      StreamEvents,
		Subjects:  []string{streamEventsPrefix + ".>"},
		Retention: nats.LimitsPolicy,
		MaxMsgs:   -1,
		MaxBytes:  2 * 1024 * 1024 * 1024, // 2GB
		MaxAge:    30 * 24 * time.Hour,
		Storage:   nats.FileStorage,
		Replicas:  1,
	}
	if _, err := js.AddStream(cfg); err != nil {
		if !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
			return nil, fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
		}
		if _, err := js.UpdateStream(cfg); err != nil {
			return nil, fmt.Errorf("failed to update stream %s: %w", cfg.Name, err)
		}
	}

	return &EventLog{js: js, logger: logger}, nil
}

// PublishEvent appends an event under vigi.events.<eventType>.
func (l *EventLog) PublishEvent(eventType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = l.js.Publish(streamEventsPrefix+"."+eventType, payload)
	return err
}

// Deliver implements NotificationSink.
func (l *EventLog) Deliver(_ context.Context, n *model.Notification) {
	if err := l.PublishEvent("notification."+string(n.Type), n); err != nil {
		l.logger.Warn("append event", zap.String("type", string(n.Type)), zap.Error(err))
	}
}

// StreamInfo reports the stream state for the health check.
func (l *EventLog) StreamInfo() (*nats.StreamInfo, error) {
	return l.js.StreamInfo(StreamEvents)
}
