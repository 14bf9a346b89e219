package common

import "errors"

// Callers should match these values with errors.Is.
var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorValidation    = errors.New("validation error")
	ErrVersionConflict = errors.New("version conflict")

	// Exchange / feedback specific errors.
	ErrActiveExchangeExists = errors.New("an active exchange already exists with this user")
	ErrFeedbackExists       = errors.New("feedback already submitted for this exchange")
	ErrExchangeNotCompleted = errors.New("exchange is not completed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
