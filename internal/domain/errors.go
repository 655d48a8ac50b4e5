package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgAccountExists  = "account already exists"
	ErrMsgPlayerNotFound = "player not found"
	ErrMsgItemNotFound   = "item definition not found"
	ErrMsgInvalidInput   = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrAccountExists  = errors.New(ErrMsgAccountExists)
	ErrPlayerNotFound = errors.New(ErrMsgPlayerNotFound)
	ErrItemNotFound   = errors.New(ErrMsgItemNotFound)
	ErrInvalidInput   = errors.New(ErrMsgInvalidInput)
)
