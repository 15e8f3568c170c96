package model

import (
	"time"
)

// Firmware is an OTA firmware release.
type Firmware struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	Version     string    `json:"version" gorm:"uniqueIndex;size:32"`
	ReleaseDate time.Time `json:"release_date"`
	Description string    `json:"description" gorm:"type:text"`
	URL         string    `json:"url" gorm:"column:url;size:500"`
}

// CreateFirmwareRequest registers a firmware release.
type CreateFirmwareRequest struct {
	Version     string     `json:"version" binding:"required,max=32"`
	ReleaseDate *time.Time `json:"release_date"`
	Description string     `json:"description"`
	URL         string     `json:"url" binding:"omitempty,max=500"`
}
