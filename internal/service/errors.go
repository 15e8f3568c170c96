package service

import "errors"

var (
	// ErrNotEnoughData is returned when a stored device has no trip history to work from.
	ErrNotEnoughData = errors.New("not enough data")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering or switching to an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken is returned for expired, malformed or foreign tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidStatus is returned for a device status outside Active, Stopped, Offline.
	ErrInvalidStatus = errors.New("invalid device status")
	// ErrInvalidCoordinate is returned for a latitude or longitude out of range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidEvent is returned when a webhook subscribes to an unknown notification type.
	ErrInvalidEvent = errors.New("invalid webhook event")
)
