// Package common defines shared constants and sentinel errors used across
// the gateway. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Request-level errors (caller's fault, never retried).
	ErrValidation         = errors.New("validation error")
	ErrNamespaceViolation = errors.New("key outside caller namespace")

	// Object-level errors.
	ErrNotFound = errors.New("not found")

	// Process-level errors.
	ErrConfiguration  = errors.New("storage not configured")
	ErrStoreOperation = errors.New("object store operation failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
