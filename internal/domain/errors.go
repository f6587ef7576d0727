package domain

import "errors"

// Sentinel errors shared across the lifecycle engine. Services wrap storage
// failures with fmt.Errorf but always surface these unwrapped so the delivery
// layer can map them to status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrPastDate     = errors.New("event date is in the past")
)
