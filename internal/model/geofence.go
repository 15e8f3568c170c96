package model

import (
	"time"
)

// Geofence is a named circular boundary watched for one device.
type Geofence struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index"`
	DeviceID    string    `json:"device_id" gorm:"size:64;index"`
	Name        string    `json:"name" gorm:"size:100"`
	Center      LatLng    `json:"center" gorm:"embedded;embeddedPrefix:center_"`
	Radius      float64   `json:"radius"` // meters
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateGeofenceRequest is the add-geofence form. Center defaults to the
// device's last location and Radius to DefaultGeofenceRadius.
type CreateGeofenceRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	DeviceID    string  `json:"device_id" binding:"required"`
	Center      *LatLng `json:"center"`
	Radius      float64 `json:"radius" binding:"gte=0"`
	Description string  `json:"description"`
}

// DefaultGeofenceRadius is used when a geofence is created without a radius.
const DefaultGeofenceRadius = 500.0

// GeofenceTransition is a boundary crossing detected by the monitor.
type GeofenceTransition struct {
	Geofence Geofence  `json:"geofence"`
	DeviceID string    `json:"device_id"`
	Entered  bool      `json:"entered"`
	Location LatLng    `json:"location"`
	At       time.Time `json:"at"`
}
