package model

import (
	"time"
)

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationGeofenceEnter NotificationType = "geofence-enter"
	NotificationGeofenceExit  NotificationType = "geofence-exit"
	NotificationOnline        NotificationType = "online"
	NotificationOffline       NotificationType = "offline"
	NotificationSOS           NotificationType = "sos"
)

// NotificationIcon names an icon the dashboard renders.
type NotificationIcon string

const (
	IconMapPin  NotificationIcon = "MapPin"
	IconTruck   NotificationIcon = "Truck"
	IconWifiOff NotificationIcon = "WifiOff"
	IconBell    NotificationIcon = "Bell"
)

// Notification is an event shown in the user's notification list.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	UserID      uint             `json:"user_id" gorm:"index:idx_notifications_user_time"`
	DeviceID    string           `json:"device_id" gorm:"size:64"`
	Type        NotificationType `json:"type" gorm:"size:32"`
	Title       string           `json:"title" gorm:"size:200"`
	Description string           `json:"description" gorm:"type:text"`
	Icon        NotificationIcon `json:"icon" gorm:"size:16"`
	IconColor   string           `json:"icon_color" gorm:"size:32"`
	Timestamp   time.Time        `json:"timestamp" gorm:"index:idx_notifications_user_time"`
}

// NotificationListLimit caps the notification list.
const NotificationListLimit = 50
