package services

import "errors"

var (
	// ErrConflict is returned when a resource already exists (duplicate registration).
	ErrConflict = errors.New("resource already exists")
	// ErrUnauthorized covers bad credentials and invalid, expired or superseded
	// tokens alike; callers never learn which check failed.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound covers both missing resources and resources owned by someone
	// else, so existence of other users' data never leaks.
	ErrNotFound = errors.New("not found")
)
