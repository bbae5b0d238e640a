package entity

import "errors"

// Validation errors returned by entity constructors.
var (
	ErrMissingSummary = errors.New("event summary is required")
	ErrMissingStart   = errors.New("event start time is required")
	ErrMissingEnd     = errors.New("event end time is required")
	ErrEndBeforeStart = errors.New("event ends before it starts")
)
