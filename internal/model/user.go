package model

import (
	"time"
)

// User is a dashboard account. Every device, geofence and notification is scoped to one.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:100"`
	Password  string    `json:"-" gorm:"size:255"` // bcrypt hash
	Name      string    `json:"name" gorm:"size:100"`
	Locale    string    `json:"locale" gorm:"size:10;default:'en-US'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterRequest is the sign-up form
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"max=100"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// UpdateProfileRequest updates the signed-in user's profile.
type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=100"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Locale *string `json:"locale" binding:"omitempty,oneof=en-US zh-CN"`
}
