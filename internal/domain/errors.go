package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the tracking service is unreachable
	ErrServerOffline = errors.New("tracking service is unreachable")

	// ErrAuthFailed indicates the service rejected the request
	ErrAuthFailed = errors.New("request was not authorized")

	// ErrItemNotFound indicates the requested title does not exist
	ErrItemNotFound = errors.New("title not found")

	// ErrRecordNotFound indicates no membership record exists for the id
	ErrRecordNotFound = errors.New("membership record not found")

	// ErrDuplicateItem indicates the id already holds a membership.
	// Callers treat it as a silent no-op, not a failure.
	ErrDuplicateItem = errors.New("item already tracked")

	// ErrInvalidRating indicates a rating outside 1..5.
	// Callers treat it as a silent no-op, not a failure.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
