// ABOUTME: Tests for the MCP tool handlers
// ABOUTME: Uses in-memory fakes for the snapshot loader and the backend client
package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/salesdesk/backend"
	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	snap dashboard.Snapshot
}

func (f *fakeLoader) Load(_ context.Context, id models.Identity) dashboard.Snapshot {
	snap := f.snap
	snap.Identity = id
	return snap
}

func (f *fakeLoader) DateRangeDays() int { return 30 }

type fakeBackend struct {
	updated   []models.Deal
	moved     []models.Callback
	deleted   []string
	entries   []models.DataCenterEntry
	feedback  []models.Feedback
	statusSet map[string]string
	failReads bool
}

func (f *fakeBackend) CreateDeal(_ context.Context, d models.Deal) (models.Deal, error) {
	d.DealID = "new-deal"
	if d.Status == "" {
		d.Status = models.DealPending
	}
	return d, d.Validate()
}

func (f *fakeBackend) UpdateDeal(_ context.Context, d models.Deal) error {
	f.updated = append(f.updated, d)
	return nil
}

func (f *fakeBackend) DeleteDeal(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) CreateCallback(_ context.Context, cb models.Callback) (models.Callback, error) {
	cb.CallbackID = "new-cb"
	cb.Status = models.CallbackPending
	return cb, cb.Validate()
}

func (f *fakeBackend) MoveCallback(_ context.Context, cb models.Callback, status string) (models.Callback, error) {
	if err := cb.TransitionStatus(status); err != nil {
		return cb, err
	}
	f.moved = append(f.moved, cb)
	return cb, nil
}

func (f *fakeBackend) DeleteCallback(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) DataCenterEntries(_ context.Context, _ backend.Query) backend.EntriesResult {
	if f.failReads {
		return backend.EntriesResult{Result: backend.Result{Err: errors.New("backend down")}}
	}
	return backend.EntriesResult{Result: backend.Result{Success: true}, Entries: f.entries}
}

func (f *fakeBackend) CreateDataCenterEntry(_ context.Context, e models.DataCenterEntry) (models.DataCenterEntry, error) {
	e.ID = "new-entry"
	return e, nil
}

func (f *fakeBackend) DeleteDataCenterEntry(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) Feedback(_ context.Context, _ string) backend.FeedbackResult {
	return backend.FeedbackResult{Result: backend.Result{Success: true}, Feedback: f.feedback}
}

func (f *fakeBackend) CreateFeedback(_ context.Context, fb models.Feedback) (models.Feedback, error) {
	fb.ID = "new-fb"
	return fb, nil
}

func (f *fakeBackend) UpdateFeedbackStatus(_ context.Context, id, status string) error {
	if f.statusSet == nil {
		f.statusSet = map[string]string{}
	}
	f.statusSet[id] = status
	return nil
}

var (
	manager  = models.Identity{ID: "m1", Name: "Mia", Role: models.RoleManager}
	salesman = models.Identity{ID: "a1", Name: "Ann", Role: models.RoleSalesman, Team: "Alpha"}
)

func testSnapshot() dashboard.Snapshot {
	day := func(d int) models.Timestamp {
		return models.At(time.Date(2024, 5, d, 10, 0, 0, 0, time.UTC))
	}
	return dashboard.Snapshot{
		DateRangeDays: 30,
		Success:       true,
		Deals: []models.Deal{
			{DealID: "d1", CustomerName: "Acme", Amount: 10000, SalesAgentID: "a1", SalesAgentName: "Ann", Team: "Alpha", Status: models.DealCompleted, CreatedAt: day(1)},
			{DealID: "d2", CustomerName: "Beta", Amount: 5000, SalesAgentID: "a1", SalesAgentName: "Ann", Team: "Alpha", Status: models.DealPending, CreatedAt: day(2)},
			{DealID: "d3", CustomerName: "Core", Amount: 20000, SalesAgentID: "b1", SalesAgentName: "Ben", Team: "Bravo", Status: models.DealActive, CreatedAt: day(2)},
		},
		Callbacks: []models.Callback{
			{CallbackID: "c1", CustomerName: "Dan", PhoneNumber: "555", SalesAgentID: "a1", Team: "Alpha", Status: models.CallbackPending, Priority: models.PriorityHigh},
			{CallbackID: "c2", CustomerName: "Eve", PhoneNumber: "556", SalesAgentID: "b1", Team: "Bravo", Status: models.CallbackCompleted, Priority: models.PriorityLow},
		},
		Summary: models.Summary{TotalRevenue: 35000, TotalDeals: 3},
	}
}

func TestRevenueReportGroupsByAgent(t *testing.T) {
	h := NewReportHandlers(&fakeLoader{snap: testSnapshot()}, manager)

	_, out, err := h.RevenueReport(context.Background(), nil, RevenueReportInput{})
	require.NoError(t, err)

	assert.Equal(t, "agent", out.GroupBy)
	assert.Equal(t, models.Money(35000), out.TotalRevenue)
	require.Len(t, out.Groups, 2)
	assert.Equal(t, report.GroupTotal{Key: "b1", Label: "Ben", Deals: 1, Revenue: 20000}, out.Groups[0])
	assert.Equal(t, report.GroupTotal{Key: "a1", Label: "Ann", Deals: 2, Revenue: 15000}, out.Groups[1])
}

func TestRevenueReportByDayIsChronological(t *testing.T) {
	h := NewReportHandlers(&fakeLoader{snap: testSnapshot()}, manager)

	_, out, err := h.RevenueReport(context.Background(), nil, RevenueReportInput{GroupBy: "day"})
	require.NoError(t, err)

	require.Len(t, out.Groups, 2)
	assert.Equal(t, "2024-05-01", out.Groups[0].Key)
	assert.Equal(t, "2024-05-02", out.Groups[1].Key)
	assert.Equal(t, models.Money(25000), out.Groups[1].Revenue)
}

func TestRevenueReportRejectsUnknownGrouping(t *testing.T) {
	h := NewReportHandlers(&fakeLoader{snap: testSnapshot()}, manager)

	_, _, err := h.RevenueReport(context.Background(), nil, RevenueReportInput{GroupBy: "planet"})
	if err == nil {
		t.Fatal("Expected error for unknown group_by")
	}
}

func TestReportFailsOnUnsuccessfulSnapshot(t *testing.T) {
	snap := testSnapshot()
	snap.Success = false
	h := NewReportHandlers(&fakeLoader{snap: snap}, manager)

	_, _, err := h.DashboardSummary(context.Background(), nil, DashboardSummaryInput{})
	if err == nil {
		t.Fatal("Expected error when the snapshot failed to load")
	}
}

func TestListDealsSortsAndPages(t *testing.T) {
	h := NewReportHandlers(&fakeLoader{snap: testSnapshot()}, manager)

	_, out, err := h.ListDeals(context.Background(), nil, ListInput{SortBy: "amount", Direction: "desc", PageSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.TotalPages)
	require.Len(t, out.Deals, 2)
	assert.Equal(t, "d3", out.Deals[0].DealID)
	assert.Equal(t, "d1", out.Deals[1].DealID)

	_, out, err = h.ListDeals(context.Background(), nil, ListInput{Status: models.DealPending})
	require.NoError(t, err)
	require.Len(t, out.Deals, 1)
	assert.Equal(t, "d2", out.Deals[0].DealID)
}

func TestListCallbacksFiltersByStatus(t *testing.T) {
	h := NewReportHandlers(&fakeLoader{snap: testSnapshot()}, manager)

	_, out, err := h.ListCallbacks(context.Background(), nil, ListInput{Status: models.CallbackCompleted})
	require.NoError(t, err)
	require.Len(t, out.Callbacks, 1)
	assert.Equal(t, "c2", out.Callbacks[0].CallbackID)

	_, _, err = h.ListCallbacks(context.Background(), nil, ListInput{Status: "lost"})
	assert.Error(t, err)
}

func TestAgentPerformanceLimit(t *testing.T) {
	h := NewReportHandlers(&fakeLoader{snap: testSnapshot()}, manager)

	_, out, err := h.AgentPerformance(context.Background(), nil, AgentPerformanceInput{Limit: 1})
	require.NoError(t, err)
	require.Len(t, out.Agents, 1)
	assert.Equal(t, "b1", out.Agents[0].AgentID)
}

func TestCreateDealUsesCallerAsAgent(t *testing.T) {
	h := NewDealHandlers(&fakeBackend{}, &fakeLoader{snap: testSnapshot()}, salesman)

	_, out, err := h.CreateDeal(context.Background(), nil, CreateDealInput{CustomerName: "Zed", Amount: 99.99})
	require.NoError(t, err)

	assert.Equal(t, "new-deal", out.Deal.DealID)
	assert.Equal(t, "a1", out.Deal.SalesAgentID)
	assert.Equal(t, "Alpha", out.Deal.Team)
	assert.Equal(t, models.Money(9999), out.Deal.Amount)

	if _, _, err := h.CreateDeal(context.Background(), nil, CreateDealInput{}); err == nil {
		t.Fatal("Expected error for missing customer_name")
	}
}

func TestUpdateDealChecksPermission(t *testing.T) {
	fb := &fakeBackend{}
	h := NewDealHandlers(fb, &fakeLoader{snap: testSnapshot()}, salesman)

	amount := 75.0
	_, out, err := h.UpdateDeal(context.Background(), nil, UpdateDealInput{ID: "d2", Amount: &amount, Status: models.DealActive})
	require.NoError(t, err)
	assert.Equal(t, models.Money(7500), out.Deal.Amount)
	assert.Equal(t, models.DealActive, out.Deal.Status)
	require.Len(t, fb.updated, 1)

	_, _, err = h.UpdateDeal(context.Background(), nil, UpdateDealInput{ID: "d3", Status: models.DealCancelled})
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Len(t, fb.updated, 1)

	_, _, err = h.UpdateDeal(context.Background(), nil, UpdateDealInput{ID: "missing"})
	assert.Error(t, err)
}

func TestDeleteDealRequiresManager(t *testing.T) {
	fb := &fakeBackend{}

	_, _, err := NewDealHandlers(fb, &fakeLoader{snap: testSnapshot()}, salesman).
		DeleteDeal(context.Background(), nil, DeleteInput{ID: "d1"})
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Empty(t, fb.deleted)

	_, out, err := NewDealHandlers(fb, &fakeLoader{snap: testSnapshot()}, manager).
		DeleteDeal(context.Background(), nil, DeleteInput{ID: "d1"})
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.Equal(t, []string{"d1"}, fb.deleted)
}

func TestTransitionCallback(t *testing.T) {
	fb := &fakeBackend{}
	h := NewCallbackHandlers(fb, &fakeLoader{snap: testSnapshot()}, salesman)

	_, out, err := h.TransitionCallback(context.Background(), nil, TransitionCallbackInput{ID: "c1", Status: "Contacted"})
	require.NoError(t, err)
	assert.Equal(t, models.CallbackContacted, out.Callback.Status)
	assert.Equal(t, []string{models.CallbackCancelled, models.CallbackCompleted}, out.Next)

	_, _, err = h.TransitionCallback(context.Background(), nil, TransitionCallbackInput{ID: "c1", Status: models.CallbackCompleted})
	assert.ErrorIs(t, err, models.ErrInvalidTransition, "snapshot still holds c1 as pending")

	_, _, err = h.TransitionCallback(context.Background(), nil, TransitionCallbackInput{ID: "c2", Status: models.CallbackCancelled})
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Len(t, fb.moved, 1)
}

func TestCreateCallbackValidates(t *testing.T) {
	h := NewCallbackHandlers(&fakeBackend{}, &fakeLoader{snap: testSnapshot()}, salesman)

	_, _, err := h.CreateCallback(context.Background(), nil, CreateCallbackInput{CustomerName: "Fay"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, out, err := h.CreateCallback(context.Background(), nil, CreateCallbackInput{CustomerName: "Fay", PhoneNumber: "557", Priority: "HIGH"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, out.Callback.Priority)
	assert.Equal(t, "a1", out.Callback.SalesAgentID)
}

func TestDataCenterVisibilityAndPosting(t *testing.T) {
	fb := &fakeBackend{entries: []models.DataCenterEntry{
		{ID: "e1", Title: "Team news", SentToTeam: "Alpha", DataType: models.DataAnnouncement},
		{ID: "e2", Title: "Other team", SentToTeam: "Bravo", DataType: models.DataGeneral},
		{ID: "e3", Title: "Personal", SentToID: "a1", DataType: models.DataTraining},
	}}
	h := NewDataCenterHandlers(fb, salesman, 30)

	_, out, err := h.ListDataCenter(context.Background(), nil, ListDataCenterInput{})
	require.NoError(t, err)
	ids := []string{}
	for _, e := range out.Entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"e1", "e3"}, ids)

	_, _, err = h.PostDataCenter(context.Background(), nil, PostDataCenterInput{Title: "Hi", SentToTeam: "Alpha"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, posted, err := NewDataCenterHandlers(fb, manager, 30).
		PostDataCenter(context.Background(), nil, PostDataCenterInput{Title: "Hi", SentToTeam: "Alpha"})
	require.NoError(t, err)
	assert.Equal(t, "new-entry", posted.Entry.ID)
	assert.Equal(t, "m1", posted.Entry.SentByID)
}

func TestListDataCenterReportsReadFailure(t *testing.T) {
	h := NewDataCenterHandlers(&fakeBackend{failReads: true}, manager, 30)

	_, _, err := h.ListDataCenter(context.Background(), nil, ListDataCenterInput{})
	if err == nil {
		t.Fatal("Expected error when the backend read fails")
	}
}

func TestFeedbackTools(t *testing.T) {
	fb := &fakeBackend{feedback: []models.Feedback{
		{ID: "f1", UserID: "a1", FeedbackText: "mine"},
		{ID: "f2", UserID: "b1", FeedbackText: "theirs"},
	}}

	_, list, err := NewDataCenterHandlers(fb, salesman, 30).ListFeedback(context.Background(), nil, ListFeedbackInput{})
	require.NoError(t, err)
	require.Len(t, list.Feedback, 1)
	assert.Equal(t, "f1", list.Feedback[0].ID)

	_, added, err := NewDataCenterHandlers(fb, salesman, 30).
		AddFeedback(context.Background(), nil, AddFeedbackInput{DataID: "e1", Text: "thanks", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "a1", added.Feedback.UserID)
	assert.Equal(t, models.RoleSalesman, added.Feedback.UserRole)

	_, _, err = NewDataCenterHandlers(fb, salesman, 30).
		SetFeedbackStatus(context.Background(), nil, SetFeedbackStatusInput{ID: "f1", Status: "resolved"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, _, err = NewDataCenterHandlers(fb, manager, 30).
		SetFeedbackStatus(context.Background(), nil, SetFeedbackStatusInput{ID: "f1", Status: "RESOLVED"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f1": models.FeedbackResolved}, fb.statusSet)
}

func TestPrompts(t *testing.T) {
	h := NewPromptHandlers(&fakeLoader{snap: testSnapshot()}, manager)

	result, err := h.GetPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Name: "revenue-review", Arguments: map[string]string{"group_by": "team"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
	text := result.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "Revenue by team")
	assert.Contains(t, text, "Bravo: 1 deals, 200.00")

	result, err = h.GetPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Name: "callback-followup"},
	})
	require.NoError(t, err)
	text = result.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "There are 1 open callbacks")
	assert.Contains(t, text, "Dan (pending, high priority)")

	_, err = h.GetPrompt(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: "nope"}})
	assert.Error(t, err)
}

func TestTeamGraph(t *testing.T) {
	h := NewVizHandlers(&fakeLoader{snap: testSnapshot()}, manager)

	_, out, err := h.TeamGraph(context.Background(), nil, TeamGraphInput{})
	require.NoError(t, err)
	assert.Equal(t, 5, out.NodeCount)
	assert.Equal(t, 4, out.EdgeCount)
	assert.Contains(t, out.DOTSource, "digraph")
	assert.Contains(t, out.DOTSource, "Bravo")
}
