// ABOUTME: Read endpoints for deals, callbacks, stats, charts, data center entries and feedback
// ABOUTME: Reads never fail loudly; they return Success=false with the cause in Err

package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/normalize"
	"github.com/harperreed/salesdesk/report"
	"go.uber.org/zap"
)

// Result carries a read's outcome. Callers must check Success rather than
// inferring success from a non-empty payload.
type Result struct {
	Success bool
	Err     error
	Issues  []normalize.Issue
}

type DealsResult struct {
	Result
	Deals []models.Deal
	Total int
}

type CallbacksResult struct {
	Result
	Callbacks []models.Callback
	Total     int
}

type StatsResult struct {
	Result
	Summary models.Summary
}

type ChartsResult struct {
	Result
	Charts models.Charts
}

type EntriesResult struct {
	Result
	Entries []models.DataCenterEntry
}

type FeedbackResult struct {
	Result
	Feedback []models.Feedback
}

// read fetches path and returns the envelope, logging and absorbing failures.
func (c *Client) read(ctx context.Context, path string, q url.Values) (envelope, Result) {
	env, err := c.do(ctx, "GET", path, q, nil)
	if err != nil {
		c.logger.Warn("backend read failed", zap.String("endpoint", path), zap.Error(err))
		return nil, Result{Err: err}
	}
	return env, Result{Success: true}
}

func (c *Client) logIssues(path string, issues []normalize.Issue) {
	for _, issue := range issues {
		c.logger.Warn("malformed record field",
			zap.String("endpoint", path),
			zap.String("record", issue.Record),
			zap.String("field", issue.Field),
			zap.Any("value", issue.Value),
			zap.String("reason", issue.Reason))
	}
}

// records extracts the first array found under keys. A missing key is an
// empty list; a present key of the wrong shape is a failure.
func records(env envelope, keys ...string) ([]normalize.Raw, []normalize.Issue, error) {
	for _, key := range keys {
		v, ok := env[key]
		if !ok || v == nil {
			continue
		}
		items, ok := v.([]interface{})
		if !ok {
			return nil, nil, fmt.Errorf("unexpected %q payload of type %T", key, v)
		}
		out := make([]normalize.Raw, 0, len(items))
		var issues []normalize.Issue
		for i, item := range items {
			raw, ok := item.(normalize.Raw)
			if !ok {
				issues = append(issues, normalize.Issue{Record: fmt.Sprintf("%s[%d]", key, i), Value: item, Reason: "not an object"})
				continue
			}
			out = append(out, raw)
		}
		return out, issues, nil
	}
	return []normalize.Raw{}, nil, nil
}

func (c *Client) Deals(ctx context.Context, q Query) DealsResult {
	const path = "/api/deals"
	out := DealsResult{Deals: []models.Deal{}}

	env, res := c.read(ctx, path, q.Values())
	if !res.Success {
		out.Result = res
		return out
	}

	raws, issues, err := records(env, "deals", "data")
	if err != nil {
		c.logger.Warn("backend read failed", zap.String("endpoint", path), zap.Error(err))
		out.Err = err
		return out
	}
	for _, raw := range raws {
		deal, dealIssues := normalize.Deal(raw)
		out.Deals = append(out.Deals, deal)
		issues = append(issues, dealIssues...)
	}
	c.logIssues(path, issues)

	out.Success = true
	out.Issues = issues
	out.Total = len(out.Deals)
	if total, ok := env.total(); ok {
		out.Total = total
	}
	return out
}

func (c *Client) Callbacks(ctx context.Context, q Query) CallbacksResult {
	const path = "/api/callbacks"
	out := CallbacksResult{Callbacks: []models.Callback{}}

	env, res := c.read(ctx, path, q.Values())
	if !res.Success {
		out.Result = res
		return out
	}

	raws, issues, err := records(env, "callbacks", "data")
	if err != nil {
		c.logger.Warn("backend read failed", zap.String("endpoint", path), zap.Error(err))
		out.Err = err
		return out
	}
	for _, raw := range raws {
		cb, cbIssues := normalize.Callback(raw)
		out.Callbacks = append(out.Callbacks, cb)
		issues = append(issues, cbIssues...)
	}
	c.logIssues(path, issues)

	out.Success = true
	out.Issues = issues
	out.Total = len(out.Callbacks)
	if total, ok := env.total(); ok {
		out.Total = total
	}
	return out
}

// DashboardStats returns backend-computed headline metrics. The conversion
// rate is normalized to a percentage here, or derived from callback counts
// when the backend omits it.
func (c *Client) DashboardStats(ctx context.Context, q Query) StatsResult {
	const path = "/api/dashboard-stats"
	out := StatsResult{}

	env, res := c.read(ctx, path, q.Values())
	if !res.Success {
		out.Result = res
		return out
	}

	data, ok := env["data"].(normalize.Raw)
	if !ok {
		out.Err = fmt.Errorf("missing stats data in %s response", path)
		c.logger.Warn("backend read failed", zap.String("endpoint", path), zap.Error(out.Err))
		return out
	}

	summary, issues := normalize.Summary(data)
	if normalize.HasConversionRate(data) {
		summary.ConversionRate = report.NormalizePercent(summary.ConversionRate)
	} else if summary.TotalCallbacks > 0 {
		summary.ConversionRate = float64(summary.CompletedCallbacks) / float64(summary.TotalCallbacks) * 100
	}
	c.logIssues(path, issues)

	out.Success = true
	out.Summary = summary
	out.Issues = issues
	return out
}

func (c *Client) Charts(ctx context.Context, q Query) ChartsResult {
	const path = "/api/charts"
	out := ChartsResult{}

	v := q.Values()
	v.Set("chartType", "all")
	env, res := c.read(ctx, path, v)
	if !res.Success {
		out.Result = res
		return out
	}

	data, ok := env["data"].(normalize.Raw)
	if !ok {
		out.Err = fmt.Errorf("missing chart data in %s response", path)
		c.logger.Warn("backend read failed", zap.String("endpoint", path), zap.Error(out.Err))
		return out
	}

	charts, issues := normalize.Charts(data)
	c.logIssues(path, issues)

	out.Success = true
	out.Charts = charts
	out.Issues = issues
	return out
}

func (c *Client) DataCenterEntries(ctx context.Context, q Query) EntriesResult {
	const path = "/api/data-center"
	out := EntriesResult{Entries: []models.DataCenterEntry{}}

	env, res := c.read(ctx, path, q.Values())
	if !res.Success {
		out.Result = res
		return out
	}

	raws, issues, err := records(env, "entries", "data")
	if err != nil {
		c.logger.Warn("backend read failed", zap.String("endpoint", path), zap.Error(err))
		out.Err = err
		return out
	}
	for _, raw := range raws {
		entry, entryIssues := normalize.DataCenterEntry(raw)
		out.Entries = append(out.Entries, entry)
		issues = append(issues, entryIssues...)
	}
	c.logIssues(path, issues)

	out.Success = true
	out.Issues = issues
	return out
}

// Feedback lists feedback on one data center entry, or all feedback when dataID is empty.
func (c *Client) Feedback(ctx context.Context, dataID string) FeedbackResult {
	const path = "/api/feedback"
	out := FeedbackResult{Feedback: []models.Feedback{}}

	v := url.Values{}
	if dataID != "" {
		v.Set("dataId", dataID)
	}
	env, res := c.read(ctx, path, v)
	if !res.Success {
		out.Result = res
		return out
	}

	raws, issues, err := records(env, "feedback", "data")
	if err != nil {
		c.logger.Warn("backend read failed", zap.String("endpoint", path), zap.Error(err))
		out.Err = err
		return out
	}
	for _, raw := range raws {
		fb, fbIssues := normalize.Feedback(raw)
		out.Feedback = append(out.Feedback, fb)
		issues = append(issues, fbIssues...)
	}
	c.logIssues(path, issues)

	out.Success = true
	out.Issues = issues
	return out
}
