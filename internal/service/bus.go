package service

import (
	"fmt"
	"strings"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
)

// NATS subjects.
const (
	SubjectUplinkLocation   = "vigi.uplink.location"
	SubjectLocationAll      = "vigi.location.*.*"
	SubjectNotificationAll  = "vigi.notification.>"
	subjectLocationPrefix   = "vigi.location"
	subjectNotificationBase = "vigi.notification"
)

// Publisher is the subset of *nats.Conn the services publish through.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NopPublisher drops every message.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(string, []byte) error { return nil }

var subjectTokenReplacer = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")

// LocationSubject is the fan-out subject for one device's location updates.
func LocationSubject(userID uint, deviceID string) string {
	return fmt.Sprintf("%s.%d.%s", subjectLocationPrefix, userID, subjectTokenReplacer.Replace(deviceID))
}

// NotificationSubject is the fan-out subject for a user's notifications.
func NotificationSubject(userID uint, t model.NotificationType) string {
	return fmt.Sprintf("%s.%d.%s", subjectNotificationBase, userID, t)
}

// SubjectUser extracts the user ID token from a location or notification subject.
func SubjectUser(subject string) (uint, bool) {
	parts := strings.Split(subject, ".")
	if len(parts) < 3 || parts[0] != "vigi" {
		return 0, false
	}
	var id uint
	if _, err := fmt.Sscanf(parts[2], "%d", &id); err != nil {
		return 0, false
	}
	return id, true
}
