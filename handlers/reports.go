// ABOUTME: Report MCP tool handlers
// ABOUTME: Implements dashboard_summary, revenue_report, agent_performance, list_deals and list_callbacks
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ReportHandlers struct {
	loader   Loader
	identity models.Identity
}

func NewReportHandlers(loader Loader, identity models.Identity) *ReportHandlers {
	return &ReportHandlers{loader: loader, identity: identity}
}

type DashboardSummaryInput struct{}

type DashboardSummaryOutput struct {
	Summary       models.Summary `json:"summary"`
	Charts        models.Charts  `json:"charts"`
	StatsSource   string         `json:"stats_source"`
	ChartsSource  string         `json:"charts_source"`
	DateRangeDays int            `json:"date_range_days"`
	Issues        int            `json:"issues"`
}

func (h *ReportHandlers) DashboardSummary(ctx context.Context, _ *mcp.CallToolRequest, _ DashboardSummaryInput) (*mcp.CallToolResult, DashboardSummaryOutput, error) {
	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, DashboardSummaryOutput{}, err
	}
	return nil, DashboardSummaryOutput{
		Summary:       snap.Summary,
		Charts:        snap.Charts,
		StatsSource:   snap.StatsSource,
		ChartsSource:  snap.ChartsSource,
		DateRangeDays: snap.DateRangeDays,
		Issues:        snap.Issues,
	}, nil
}

type RevenueReportInput struct {
	GroupBy string `json:"group_by,omitempty" jsonschema:"Grouping: agent, closing_agent, team, tier, status or day (default agent)"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum number of groups to return (default all)"`
}

type RevenueReportOutput struct {
	GroupBy      string              `json:"group_by"`
	Groups       []report.GroupTotal `json:"groups"`
	TotalRevenue models.Money        `json:"total_revenue"`
}

func (h *ReportHandlers) RevenueReport(ctx context.Context, _ *mcp.CallToolRequest, input RevenueReportInput) (*mcp.CallToolResult, RevenueReportOutput, error) {
	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, RevenueReportOutput{}, err
	}

	groups, err := report.RevenueBy(snap.Deals, input.GroupBy)
	if err != nil {
		return nil, RevenueReportOutput{}, err
	}
	groups = report.Top(groups, input.Limit)

	groupBy := input.GroupBy
	if groupBy == "" {
		groupBy = "agent"
	}
	return nil, RevenueReportOutput{
		GroupBy:      groupBy,
		Groups:       groups,
		TotalRevenue: report.TotalRevenue(snap.Deals),
	}, nil
}

type AgentPerformanceInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of agents to return (default all)"`
}

type AgentPerformanceOutput struct {
	Agents []report.AgentRow `json:"agents"`
}

func (h *ReportHandlers) AgentPerformance(ctx context.Context, _ *mcp.CallToolRequest, input AgentPerformanceInput) (*mcp.CallToolResult, AgentPerformanceOutput, error) {
	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, AgentPerformanceOutput{}, err
	}

	rows := report.AgentPerformance(snap.Deals, snap.Callbacks)
	rows = report.Top(rows, input.Limit)
	return nil, AgentPerformanceOutput{Agents: rows}, nil
}

type ListInput struct {
	SortBy    string `json:"sort_by,omitempty" jsonschema:"Field to sort by, e.g. amount, createdAt, customerName, status"`
	Direction string `json:"direction,omitempty" jsonschema:"Sort direction: asc or desc (default asc)"`
	Page      int    `json:"page,omitempty" jsonschema:"Page number starting at 1"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"Rows per page (default 10)"`
	Status    string `json:"status,omitempty" jsonschema:"Only return records with this status"`
}

type ListDealsOutput struct {
	Deals      []models.Deal `json:"deals"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total"`
}

func (h *ReportHandlers) ListDeals(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListDealsOutput, error) {
	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, ListDealsOutput{}, err
	}

	deals := snap.Deals
	if input.Status != "" {
		if !models.IsValidDealStatus(input.Status) {
			return nil, ListDealsOutput{}, fmt.Errorf("invalid status: %s", input.Status)
		}
		deals = filter(deals, func(d models.Deal) bool { return d.Status == input.Status })
	}

	page := report.SortAndPage(deals, input.SortBy, report.ParseDirection(input.Direction), input.Page, input.PageSize)
	return nil, ListDealsOutput{
		Deals:      page.Items,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.Total,
	}, nil
}

type ListCallbacksOutput struct {
	Callbacks  []models.Callback `json:"callbacks"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Total      int               `json:"total"`
}

func (h *ReportHandlers) ListCallbacks(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListCallbacksOutput, error) {
	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, ListCallbacksOutput{}, err
	}

	callbacks := snap.Callbacks
	if input.Status != "" {
		if !models.IsValidCallbackStatus(input.Status) {
			return nil, ListCallbacksOutput{}, fmt.Errorf("invalid status: %s", input.Status)
		}
		callbacks = filter(callbacks, func(c models.Callback) bool { return c.Status == input.Status })
	}

	page := report.SortAndPage(callbacks, input.SortBy, report.ParseDirection(input.Direction), input.Page, input.PageSize)
	return nil, ListCallbacksOutput{
		Callbacks:  page.Items,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.Total,
	}, nil
}

func filter[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
