package model

import (
	"time"

	"github.com/lib/pq"
)

// WebhookStatus is the delivery state of a webhook.
type WebhookStatus string

const (
	WebhookStatusActive   WebhookStatus = "active"
	WebhookStatusInactive WebhookStatus = "inactive"
	WebhookStatusFailed   WebhookStatus = "failed"
)

// WebhookEventAll subscribes a webhook to every notification type.
const WebhookEventAll = "all"

// Webhook forwards a user's notifications to an external URL.
type Webhook struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserID          uint           `json:"user_id" gorm:"index"`
	Name            string         `json:"name" gorm:"size:100;not null"`
	URL             string         `json:"url" gorm:"column:url;size:500;not null"`
	Secret          string         `json:"-" gorm:"size:255"`
	Events          pq.StringArray `json:"events" gorm:"type:text[]"`
	Status          WebhookStatus  `json:"status" gorm:"size:16;default:'active'"`
	RetryCount      int            `json:"retry_count" gorm:"default:3"`
	Timeout         int            `json:"timeout" gorm:"default:10"` // seconds
	SuccessCount    int            `json:"success_count" gorm:"default:0"`
	FailCount       int            `json:"fail_count" gorm:"default:0"`
	LastTriggeredAt *time.Time     `json:"last_triggered_at,omitempty"`
	LastError       string         `json:"last_error,omitempty" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Subscribed reports whether the webhook wants notifications of type t.
func (w *Webhook) Subscribed(t NotificationType) bool {
	for _, e := range w.Events {
		if e == WebhookEventAll || e == string(t) {
			return true
		}
	}
	return false
}

// WebhookPayload is the JSON body POSTed to a webhook.
type WebhookPayload struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// CreateWebhookRequest registers a webhook
type CreateWebhookRequest struct {
	Name       string   `json:"name" binding:"required,max=100"`
	URL        string   `json:"url" binding:"required,url,max=500"`
	Secret     string   `json:"secret" binding:"max=255"`
	Events     []string `json:"events" binding:"required,min=1"`
	RetryCount int      `json:"retry_count" binding:"min=0,max=10"`
	Timeout    int      `json:"timeout" binding:"min=0,max=60"`
}
