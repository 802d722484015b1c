package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned by persistence collaborators when a referenced
	// entity does not exist
	ErrNotFound = errors.New("resource not found")
)
