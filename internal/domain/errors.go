package domain

import "errors"

// Sentinel errors for the storage layer. Backends translate engine-specific
// failures onto these so callers can branch with errors.Is regardless of the
// database in use.
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate key")
	ErrReference  = errors.New("referenced row does not exist")
	ErrBusy       = errors.New("resource busy")
	ErrValidation = errors.New("validation failed")
)
