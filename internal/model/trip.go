package model

import (
	"time"
)

// Trip is a completed journey of a device.
type Trip struct {
	ID           string    `json:"id" gorm:"primaryKey;size:64"`
	UserID       uint      `json:"user_id" gorm:"index"`
	DeviceID     string    `json:"device_id" gorm:"size:64;index"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	StartAddress string    `json:"start_address" gorm:"size:255"`
	EndAddress   string    `json:"end_address" gorm:"size:255"`
	Distance     float64   `json:"distance"` // km
	Path         []LatLng  `json:"path" gorm:"type:jsonb;serializer:json"`
}

// Duration is the elapsed time between start and end.
func (t Trip) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}
