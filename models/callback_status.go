// ABOUTME: Callback status state machine
// ABOUTME: Enforces pending -> contacted -> completed with cancellation from any open state
package models

import (
	"fmt"
	"sort"
)

// callbackTransitions lists the statuses reachable from each status.
// Completed and cancelled are terminal.
var callbackTransitions = map[string][]string{
	CallbackPending:   {CallbackContacted, CallbackCancelled},
	CallbackContacted: {CallbackCompleted, CallbackCancelled},
	CallbackCompleted: {},
	CallbackCancelled: {},
}

// CanTransitionCallback reports whether a callback may move from one status to another.
func CanTransitionCallback(from, to string) bool {
	for _, next := range callbackTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextCallbackStatuses returns the statuses reachable from status, sorted.
func NextCallbackStatuses(status string) []string {
	next := append([]string(nil), callbackTransitions[status]...)
	sort.Strings(next)
	return next
}

// TransitionStatus validates and applies a status change. Moving to the
// current status is a no-op.
func (c *Callback) TransitionStatus(newStatus string) error {
	if !IsValidCallbackStatus(newStatus) {
		return fmt.Errorf("%w: unknown callback status %q", ErrValidation, newStatus)
	}

	current := c.Status
	if current == "" {
		current = CallbackPending
	}
	if current == newStatus {
		c.Status = current
		return nil
	}

	if !CanTransitionCallback(current, newStatus) {
		return fmt.Errorf("%w: callback %s cannot move from %s to %s", ErrInvalidTransition, c.CallbackID, current, newStatus)
	}

	c.Status = newStatus
	return nil
}
