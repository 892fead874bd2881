package model

import "errors"

var (
	// ErrInvalidRange is returned for malformed date ranges, e.g. end before start
	ErrInvalidRange = errors.New("invalid date range")

	// ErrUnknownRecurrenceKind is returned when strict recurrence handling rejects a kind
	ErrUnknownRecurrenceKind = errors.New("unknown recurrence kind")

	// ErrUpstreamFetch wraps failures reading from the external store so callers
	// can tell them apart from an empty result
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrInstanceNotFound is returned when a recurring instance ID does not exist
	ErrInstanceNotFound = errors.New("recurring instance not found")
)
