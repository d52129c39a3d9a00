package domain

import "errors"

var (
	// ErrValidation marks domain validation failures.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks lookups for unknown entities.
	ErrNotFound = errors.New("not found")
)
