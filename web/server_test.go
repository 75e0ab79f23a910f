// ABOUTME: Tests for the report API
// ABOUTME: Drives the router through httptest with identity headers and a fake loader
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	deals []models.Deal
	fail  bool
	seen  []models.Identity
}

func (f *fakeLoader) Load(_ context.Context, id models.Identity) dashboard.Snapshot {
	f.seen = append(f.seen, id)
	deals := report.FilterVisible(f.deals, id)
	return dashboard.Snapshot{
		Identity: id,
		Deals:    deals,
		Summary:  report.Summarize(deals, nil),
		Success:  !f.fail,
	}
}

func testDeals() []models.Deal {
	created := models.At(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	return []models.Deal{
		{DealID: "d1", CustomerName: "Acme", Amount: 10000, SalesAgentID: "a1", SalesAgentName: "Ann", Team: "Alpha", CreatedAt: created},
		{DealID: "d2", CustomerName: "Bolt", Amount: 30000, SalesAgentID: "b1", SalesAgentName: "Ben", Team: "Bravo", CreatedAt: created},
		{DealID: "d3", CustomerName: "Core", Amount: 20000, SalesAgentID: "a1", SalesAgentName: "Ann", Team: "Alpha", CreatedAt: created},
	}
}

type decoded struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Meta    *Meta           `json:"meta"`
}

func get(t *testing.T, s *Server, path string, id models.Identity) (*httptest.ResponseRecorder, decoded) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if id.Role != "" {
		req.Header.Set(HeaderRole, id.Role)
		req.Header.Set(HeaderUserID, id.ID)
		req.Header.Set(HeaderTeam, id.Team)
		req.Header.Set(HeaderManagedTeam, id.ManagedTeam)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body decoded
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

var manager = models.Identity{ID: "m1", Role: models.RoleManager}

func TestHealth(t *testing.T) {
	s := NewServer(&fakeLoader{}, 0, nil, nil)
	rec, body := get(t, s, "/api/v1/health", models.Identity{})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestReportsRequireIdentity(t *testing.T) {
	loader := &fakeLoader{deals: testDeals()}
	s := NewServer(loader, 0, nil, nil)

	rec, body := get(t, s, "/api/v1/reports/summary", models.Identity{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, body.Success)

	rec, _ = get(t, s, "/api/v1/reports/summary", models.Identity{ID: "x", Role: "admin"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, loader.seen)
}

func TestSummaryIsScopedToCaller(t *testing.T) {
	loader := &fakeLoader{deals: testDeals()}
	s := NewServer(loader, 0, nil, nil)

	salesman := models.Identity{ID: "a1", Role: models.RoleSalesman, Team: "Alpha"}
	rec, body := get(t, s, "/api/v1/reports/summary", salesman)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Summary models.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, models.Money(30000), data.Summary.TotalRevenue)
	assert.Equal(t, 2, data.Summary.TotalDeals)
	require.Len(t, loader.seen, 1)
	assert.Equal(t, "Alpha", loader.seen[0].Team)
}

func TestRevenueReport(t *testing.T) {
	s := NewServer(&fakeLoader{deals: testDeals()}, 0, nil, nil)

	rec, body := get(t, s, "/api/v1/reports/revenue?group_by=team", manager)
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []report.GroupTotal
	require.NoError(t, json.Unmarshal(body.Data, &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "Bravo", groups[0].Key)
	assert.Equal(t, models.Money(30000), groups[1].Revenue)

	rec, body = get(t, s, "/api/v1/reports/revenue?group_by=planet", manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body.Error, "invalid grouping")
}

func TestDealsArePaged(t *testing.T) {
	s := NewServer(&fakeLoader{deals: testDeals()}, 0, nil, nil)

	rec, body := get(t, s, "/api/v1/reports/deals?sort=amount&dir=desc&page=2&page_size=2", manager)
	require.Equal(t, http.StatusOK, rec.Code)

	var deals []models.Deal
	require.NoError(t, json.Unmarshal(body.Data, &deals))
	require.Len(t, deals, 1)
	assert.Equal(t, "d1", deals[0].DealID)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, 2, body.Meta.TotalPages)
	assert.Equal(t, 3, body.Meta.Total)
}

func TestListsUseConfiguredPageSize(t *testing.T) {
	s := NewServer(&fakeLoader{deals: testDeals()}, 2, nil, nil)

	rec, body := get(t, s, "/api/v1/reports/deals", manager)
	require.Equal(t, http.StatusOK, rec.Code)
	var deals []models.Deal
	require.NoError(t, json.Unmarshal(body.Data, &deals))
	assert.Len(t, deals, 2)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.PageSize)
	assert.Equal(t, 2, body.Meta.TotalPages)

	rec, body = get(t, s, "/api/v1/reports/callbacks", manager)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.PageSize)

	// An explicit page_size still wins.
	_, body = get(t, s, "/api/v1/reports/deals?page_size=3", manager)
	require.NotNil(t, body.Meta)
	if body.Meta.PageSize != 3 || body.Meta.TotalPages != 1 {
		t.Fatalf("meta = %+v, want page size 3 on one page", body.Meta)
	}
}

func TestDefaultPageSizeWhenUnset(t *testing.T) {
	s := NewServer(&fakeLoader{deals: testDeals()}, 0, nil, nil)
	_, body := get(t, s, "/api/v1/reports/deals", manager)
	require.NotNil(t, body.Meta)
	assert.Equal(t, report.DefaultPageSize, body.Meta.PageSize)
}

func TestFailedLoadIsBadGateway(t *testing.T) {
	s := NewServer(&fakeLoader{fail: true}, 0, nil, nil)
	rec, body := get(t, s, "/api/v1/reports/agents", manager)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, body.Success)
}

func TestCORSPreflight(t *testing.T) {
	s := NewServer(&fakeLoader{}, 0, []string{"https://dash.example.com"}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/reports/summary", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", HeaderRole)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://dash.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
