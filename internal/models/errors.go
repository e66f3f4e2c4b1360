package models

import "errors"

// Domain errors surfaced across service and storage boundaries. Handlers map
// these to HTTP statuses; everything else is treated as internal.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("already exists")
	ErrInvalidInput = errors.New("invalid input")
)
