package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrNotFound      = errors.New("row not found")
	ErrNotConfigured = errors.New("storage is not configured")
	ErrInvalidPath   = errors.New("storage path is required")
	ErrInvalidLimit  = errors.New("limit must be positive")
)
