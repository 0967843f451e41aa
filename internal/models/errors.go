package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrJobNotFound        = errors.New("models: job not found")
	ErrSessionNotFound    = errors.New("models: session not found")
	ErrSessionExpired     = errors.New("models: session expired")
	ErrEmptyMessage       = errors.New("models: empty message")
	ErrNotConnected       = errors.New("models: chat not connected")
)

// ValidationError reports a missing or malformed form field. No store call is made when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
