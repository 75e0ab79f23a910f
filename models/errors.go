// ABOUTME: Sentinel errors shared across packages
// ABOUTME: Callers match them with errors.Is
package models

import "errors"

var (
	// ErrValidation marks a record rejected before any network call.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden marks an action the caller's role may not take. The
	// check is advisory; the backend is the authority.
	ErrForbidden = errors.New("action not permitted for role")

	ErrInvalidTransition = errors.New("invalid status transition")
)
