package model

import (
	"time"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DeviceStatus is the reported state of a device.
type DeviceStatus string

const (
	DeviceStatusActive  DeviceStatus = "Active"
	DeviceStatusStopped DeviceStatus = "Stopped"
	DeviceStatusOffline DeviceStatus = "Offline"
)

// Valid reports whether s is one of the known statuses.
func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceStatusActive, DeviceStatusStopped, DeviceStatusOffline:
		return true
	}
	return false
}

// Device represents a GPS tracking device. IDs are chosen by the user and are
// unique per owner.
type Device struct {
	ID              string       `json:"id" gorm:"primaryKey;size:64"`
	UserID          uint         `json:"user_id" gorm:"primaryKey"`
	Name            string       `json:"name" gorm:"size:100"`
	Status          DeviceStatus `json:"status" gorm:"size:16;index"`
	FirmwareVersion string       `json:"firmware_version" gorm:"size:32"`
	LastLocation    LatLng       `json:"last_location" gorm:"embedded;embeddedPrefix:last_"`
	LastSeen        *time.Time   `json:"last_seen"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// DeviceShadow is the latest reported state of a device, cached in Redis.
type DeviceShadow struct {
	DeviceID  string       `json:"device_id"`
	Lat       float64      `json:"lat"`
	Lng       float64      `json:"lng"`
	Speed     float64      `json:"spd,omitempty"`
	Status    DeviceStatus `json:"st"`
	Timestamp int64        `json:"ts"`
}

// CreateDeviceRequest is the add-device form.
type CreateDeviceRequest struct {
	ID              string  `json:"id" binding:"required,max=64"`
	Name            string  `json:"name" binding:"required,max=100"`
	FirmwareVersion string  `json:"firmware_version" binding:"max=32"`
	Location        *LatLng `json:"location"`
}

// LocationUpdate is one telemetry sample for a device.
type LocationUpdate struct {
	Lat       float64      `json:"lat" binding:"gte=-90,lte=90"`
	Lng       float64      `json:"lng" binding:"gte=-180,lte=180"`
	Speed     float64      `json:"speed"`
	Status    DeviceStatus `json:"status"`
	Timestamp *time.Time   `json:"timestamp"`
}

// UplinkLocation is a LocationUpdate arriving over the message bus.
type UplinkLocation struct {
	UserID   uint   `json:"user_id"`
	DeviceID string `json:"device_id"`
	LocationUpdate
}

// DeviceQuery filters the device list.
type DeviceQuery struct {
	Status   DeviceStatus
	Keyword  string
	Page     int
	PageSize int
}
