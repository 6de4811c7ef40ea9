package domain

import "errors"

// Common validation errors for SessionMemory.
var (
	ErrEmptySessionID = errors.New("session ID cannot be empty")
	ErrInvalidWordKey = errors.New("word stats keys must be lower-case and non-empty")
	ErrRecentOverflow = errors.New("recent list exceeds maximum length")
)
