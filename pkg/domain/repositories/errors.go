package repositories

import "errors"

var (
	// ErrDataUnavailable means the provider has no value for the lookup; callers apply defaults
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrNotFound means a referenced record does not exist
	ErrNotFound = errors.New("not found")
)
