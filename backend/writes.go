// ABOUTME: Write endpoints for deals, callbacks, data center entries and feedback
// ABOUTME: Validates before any request and surfaces backend rejections as APIError

package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/normalize"
	"go.uber.org/zap"
)

func (c *Client) write(ctx context.Context, method, path string, payload interface{}) (envelope, error) {
	env, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		c.logger.Warn("backend write failed", zap.String("endpoint", method+" "+path), zap.Error(err))
		return nil, err
	}
	return env, nil
}

func idPath(prefix, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: id is required", models.ErrValidation)
	}
	return prefix + "/" + url.PathEscape(id), nil
}

// returned pulls the record the backend echoed back under one of keys.
func returned(env envelope, keys ...string) (normalize.Raw, bool) {
	for _, key := range keys {
		if raw, ok := env[key].(normalize.Raw); ok {
			return raw, true
		}
	}
	return nil, false
}

// CreateDeal posts a new deal. Missing ids, statuses and creation times are
// filled in before validation.
func (c *Client) CreateDeal(ctx context.Context, d models.Deal) (models.Deal, error) {
	if d.DealID == "" {
		d.DealID = models.NewID()
	}
	if d.Status == "" {
		d.Status = models.DealPending
	}
	if !d.CreatedAt.Valid {
		d.CreatedAt = models.Now()
	}
	if err := d.Validate(); err != nil {
		return models.Deal{}, err
	}

	env, err := c.write(ctx, "POST", "/api/sales", d)
	if err != nil {
		return models.Deal{}, fmt.Errorf("failed to create deal: %w", err)
	}
	if raw, ok := returned(env, "deal", "sale", "data"); ok {
		created, issues := normalize.Deal(raw)
		c.logIssues("/api/sales", issues)
		if created.DealID != "" {
			return created, nil
		}
	}
	return d, nil
}

func (c *Client) UpdateDeal(ctx context.Context, d models.Deal) error {
	path, err := idPath("/api/deals", d.DealID)
	if err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if _, err := c.write(ctx, "PUT", path, d); err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}
	return nil
}

func (c *Client) DeleteDeal(ctx context.Context, id string) error {
	path, err := idPath("/api/deals", id)
	if err != nil {
		return err
	}
	if _, err := c.write(ctx, "DELETE", path, nil); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	return nil
}

func (c *Client) CreateCallback(ctx context.Context, cb models.Callback) (models.Callback, error) {
	if cb.CallbackID == "" {
		cb.CallbackID = models.NewID()
	}
	if cb.Status == "" {
		cb.Status = models.CallbackPending
	}
	if cb.Priority == "" {
		cb.Priority = models.PriorityMedium
	}
	if !cb.CreatedAt.Valid {
		cb.CreatedAt = models.Now()
	}
	if err := cb.Validate(); err != nil {
		return models.Callback{}, err
	}

	env, err := c.write(ctx, "POST", "/api/callbacks", cb)
	if err != nil {
		return models.Callback{}, fmt.Errorf("failed to create callback: %w", err)
	}
	if raw, ok := returned(env, "callback", "data"); ok {
		created, issues := normalize.Callback(raw)
		c.logIssues("/api/callbacks", issues)
		if created.CallbackID != "" {
			return created, nil
		}
	}
	return cb, nil
}

func (c *Client) UpdateCallback(ctx context.Context, cb models.Callback) error {
	path, err := idPath("/api/callbacks", cb.CallbackID)
	if err != nil {
		return err
	}
	if err := cb.Validate(); err != nil {
		return err
	}
	if _, err := c.write(ctx, "PUT", path, cb); err != nil {
		return fmt.Errorf("failed to update callback: %w", err)
	}
	return nil
}

// MoveCallback applies a status transition locally, rejecting invalid moves
// before anything is sent, then persists the full record.
func (c *Client) MoveCallback(ctx context.Context, cb models.Callback, status string) (models.Callback, error) {
	if err := cb.TransitionStatus(status); err != nil {
		return cb, err
	}
	if err := c.UpdateCallback(ctx, cb); err != nil {
		return cb, err
	}
	return cb, nil
}

func (c *Client) DeleteCallback(ctx context.Context, id string) error {
	path, err := idPath("/api/callbacks", id)
	if err != nil {
		return err
	}
	if _, err := c.write(ctx, "DELETE", path, nil); err != nil {
		return fmt.Errorf("failed to delete callback: %w", err)
	}
	return nil
}

func (c *Client) CreateDataCenterEntry(ctx context.Context, e models.DataCenterEntry) (models.DataCenterEntry, error) {
	if e.ID == "" {
		e.ID = models.NewID()
	}
	if e.DataType == "" {
		e.DataType = models.DataGeneral
	}
	if e.Priority == "" {
		e.Priority = models.PriorityMedium
	}
	if !e.CreatedAt.Valid {
		e.CreatedAt = models.Now()
	}
	if err := e.Validate(); err != nil {
		return models.DataCenterEntry{}, err
	}

	env, err := c.write(ctx, "POST", "/api/data-center", e)
	if err != nil {
		return models.DataCenterEntry{}, fmt.Errorf("failed to create data center entry: %w", err)
	}
	if raw, ok := returned(env, "entry", "data"); ok {
		created, issues := normalize.DataCenterEntry(raw)
		c.logIssues("/api/data-center", issues)
		if created.ID != "" {
			return created, nil
		}
	}
	return e, nil
}

func (c *Client) UpdateDataCenterEntry(ctx context.Context, e models.DataCenterEntry) error {
	path, err := idPath("/api/data-center", e.ID)
	if err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := c.write(ctx, "PUT", path, e); err != nil {
		return fmt.Errorf("failed to update data center entry: %w", err)
	}
	return nil
}

func (c *Client) DeleteDataCenterEntry(ctx context.Context, id string) error {
	path, err := idPath("/api/data-center", id)
	if err != nil {
		return err
	}
	if _, err := c.write(ctx, "DELETE", path, nil); err != nil {
		return fmt.Errorf("failed to delete data center entry: %w", err)
	}
	return nil
}

func (c *Client) CreateFeedback(ctx context.Context, f models.Feedback) (models.Feedback, error) {
	if f.ID == "" {
		f.ID = models.NewID()
	}
	if f.FeedbackType == "" {
		f.FeedbackType = models.FeedbackGeneral
	}
	if f.Status == "" {
		f.Status = models.FeedbackPending
	}
	if !f.CreatedAt.Valid {
		f.CreatedAt = models.Now()
	}
	if err := f.Validate(); err != nil {
		return models.Feedback{}, err
	}

	if _, err := c.write(ctx, "POST", "/api/feedback", f); err != nil {
		return models.Feedback{}, fmt.Errorf("failed to create feedback: %w", err)
	}
	return f, nil
}

func (c *Client) UpdateFeedbackStatus(ctx context.Context, id, status string) error {
	path, err := idPath("/api/feedback", id)
	if err != nil {
		return err
	}
	if !models.IsValidFeedbackStatus(status) {
		return fmt.Errorf("%w: unknown feedback status %q", models.ErrValidation, status)
	}
	payload := map[string]string{"status": status}
	if _, err := c.write(ctx, "PUT", path, payload); err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	return nil
}
