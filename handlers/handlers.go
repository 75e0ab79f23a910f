// ABOUTME: Shared dependencies for the MCP tool handlers
// ABOUTME: Declares the backend and snapshot loader interfaces the tools call through
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/salesdesk/backend"
	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/models"
)

// Loader produces a role-scoped snapshot. *dashboard.Service satisfies it.
type Loader interface {
	Load(ctx context.Context, id models.Identity) dashboard.Snapshot
	DateRangeDays() int
}

// Backend is the part of *backend.Client the write and data center tools use.
type Backend interface {
	CreateDeal(ctx context.Context, d models.Deal) (models.Deal, error)
	UpdateDeal(ctx context.Context, d models.Deal) error
	DeleteDeal(ctx context.Context, id string) error
	CreateCallback(ctx context.Context, cb models.Callback) (models.Callback, error)
	MoveCallback(ctx context.Context, cb models.Callback, status string) (models.Callback, error)
	DeleteCallback(ctx context.Context, id string) error
	DataCenterEntries(ctx context.Context, q backend.Query) backend.EntriesResult
	CreateDataCenterEntry(ctx context.Context, e models.DataCenterEntry) (models.DataCenterEntry, error)
	DeleteDataCenterEntry(ctx context.Context, id string) error
	Feedback(ctx context.Context, dataID string) backend.FeedbackResult
	CreateFeedback(ctx context.Context, f models.Feedback) (models.Feedback, error)
	UpdateFeedbackStatus(ctx context.Context, id, status string) error
}

// load fetches a snapshot and turns an unsuccessful one into an error, since
// a tool answering from a partial fetch would silently under-report.
func load(ctx context.Context, loader Loader, id models.Identity) (dashboard.Snapshot, error) {
	snap := loader.Load(ctx, id)
	if !snap.Success {
		return snap, fmt.Errorf("failed to load dashboard data for %s %s", id.Role, id.ID)
	}
	return snap, nil
}

func findDeal(deals []models.Deal, id string) (models.Deal, bool) {
	for _, d := range deals {
		if d.DealID == id {
			return d, true
		}
	}
	return models.Deal{}, false
}

func findCallback(callbacks []models.Callback, id string) (models.Callback, bool) {
	for _, c := range callbacks {
		if c.CallbackID == id {
			return c, true
		}
	}
	return models.Callback{}, false
}
