package domain

import "errors"

// Error kinds surfaced by the booking core. Callers match with errors.Is;
// the HTTP layer maps them to status codes.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)
