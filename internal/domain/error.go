package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// Quota errors
	ErrTextCapReached  = errors.New("message limit reached")
	ErrVoiceCapReached = errors.New("voice message limit reached")

	// Demo session errors
	ErrDemoLocked = errors.New("demo session is locked")
	ErrTampered   = errors.New("demo record failed signature check")

	// Turn discipline
	ErrTurnInFlight = errors.New("a turn is already in flight for this user")
)
