// ABOUTME: Required-field validation for records submitted from forms
// ABOUTME: Runs before any write reaches the backend
package models

import (
	"fmt"
	"strings"
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return nil
}

func (d Deal) Validate() error {
	if err := required("customerName", d.CustomerName); err != nil {
		return err
	}
	if err := required("salesAgentId", d.SalesAgentID); err != nil {
		return err
	}
	if d.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	if d.Status != "" && !IsValidDealStatus(d.Status) {
		return fmt.Errorf("%w: invalid status %q (valid: pending, active, completed, cancelled)", ErrValidation, d.Status)
	}
	return nil
}

func (c Callback) Validate() error {
	if err := required("customerName", c.CustomerName); err != nil {
		return err
	}
	if err := required("phoneNumber", c.PhoneNumber); err != nil {
		return err
	}
	if err := required("salesAgentId", c.SalesAgentID); err != nil {
		return err
	}
	if c.Status != "" && !IsValidCallbackStatus(c.Status) {
		return fmt.Errorf("%w: invalid status %q (valid: pending, contacted, completed, cancelled)", ErrValidation, c.Status)
	}
	if c.Priority != "" && !IsValidPriority(c.Priority) {
		return fmt.Errorf("%w: invalid priority %q (valid: low, medium, high, urgent)", ErrValidation, c.Priority)
	}
	return nil
}

func (e DataCenterEntry) Validate() error {
	if err := required("title", e.Title); err != nil {
		return err
	}
	if !IsValidDataType(e.DataType) {
		return fmt.Errorf("%w: invalid dataType %q (valid: general, file, announcement, training, policy)", ErrValidation, e.DataType)
	}
	if !IsValidPriority(e.Priority) {
		return fmt.Errorf("%w: invalid priority %q (valid: low, medium, high, urgent)", ErrValidation, e.Priority)
	}

	toTeam := strings.TrimSpace(e.SentToTeam) != ""
	toUser := strings.TrimSpace(e.SentToID) != ""
	switch {
	case toTeam && toUser:
		return fmt.Errorf("%w: address the entry to a team or to a user, not both", ErrValidation)
	case !toTeam && !toUser:
		return fmt.Errorf("%w: sentToTeam or sentToId is required", ErrValidation)
	}
	return nil
}

func (f Feedback) Validate() error {
	if err := required("dataId", f.DataID); err != nil {
		return err
	}
	if err := required("userId", f.UserID); err != nil {
		return err
	}
	if err := required("feedbackText", f.FeedbackText); err != nil {
		return err
	}
	if f.Rating < 0 || f.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if !IsValidFeedbackType(f.FeedbackType) {
		return fmt.Errorf("%w: invalid feedbackType %q (valid: general, question, suggestion, concern, acknowledgment)", ErrValidation, f.FeedbackType)
	}
	if f.Status != "" && !IsValidFeedbackStatus(f.Status) {
		return fmt.Errorf("%w: invalid status %q (valid: pending, in_progress, resolved, closed)", ErrValidation, f.Status)
	}
	return nil
}
