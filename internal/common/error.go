package common

import "errors"

// Callers should match these with errors.Is.
var (
	ErrNotFound = errors.New("not found")

	ErrInvalidArgument = errors.New("invalid argument")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
