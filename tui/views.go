// ABOUTME: Rendering for the terminal dashboard tabs
// ABOUTME: Overview reuses the ASCII dashboard; deals and callbacks render as paged tables
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/report"
	"github.com/harperreed/salesdesk/viz"
)

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("SALESDESK · %s (%s)", m.identity.Name, m.identity.Role)))
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch {
	case !m.loaded:
		s.WriteString("Loading…")
	case m.viewMode == ViewDeals:
		s.WriteString(m.renderDealsTable())
	case m.viewMode == ViewCallbacks:
		s.WriteString(m.renderCallbacksTable())
	default:
		s.WriteString(viz.RenderDashboard(m.snap, m.now()))
	}
	s.WriteString("\n")

	s.WriteString(m.renderStatus())
	s.WriteString(m.renderHelp())
	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, name := range viewNames {
		if ViewMode(i) == m.viewMode {
			rendered = append(rendered, tabActiveStyle.Render(name))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) newTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, max(m.height-10, 3))),
	)
	if m.cursor < len(rows) {
		t.SetCursor(m.cursor)
	}
	return t.View()
}

func sortLabel(s report.SortState) string {
	arrow := "▲"
	if s.Direction == report.Desc {
		arrow = "▼"
	}
	return fmt.Sprintf("sorted by %s %s", s.Field, arrow)
}

func (m Model) renderDealsTable() string {
	page := m.dealPage()
	if page.Total == 0 {
		return "No deals in range"
	}

	columns := []table.Column{
		{Title: "Customer", Width: 22},
		{Title: "Amount", Width: 12},
		{Title: "Agent", Width: 16},
		{Title: "Team", Width: 12},
		{Title: "Tier", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Created", Width: 10},
	}
	rows := make([]table.Row, 0, len(page.Items))
	for _, d := range page.Items {
		agent := d.SalesAgentName
		if agent == "" {
			agent = d.SalesAgentID
		}
		rows = append(rows, table.Row{
			d.CustomerName,
			"$" + d.Amount.String(),
			agent,
			d.Team,
			d.ServiceTier,
			d.Status,
			d.CreatedAt.Day(nil),
		})
	}

	return m.newTable(columns, rows) + "\n" +
		helpStyle.Render(fmt.Sprintf("page %d/%d · %d deals · %s", page.Page, page.TotalPages, page.Total, sortLabel(m.dealSort)))
}

func (m Model) renderCallbacksTable() string {
	page := m.callbackPage()
	if page.Total == 0 {
		return "No callbacks in range"
	}

	columns := []table.Column{
		{Title: "Customer", Width: 22},
		{Title: "Phone", Width: 14},
		{Title: "Agent", Width: 16},
		{Title: "Priority", Width: 8},
		{Title: "Status", Width: 10},
		{Title: "Scheduled", Width: 16},
	}
	rows := make([]table.Row, 0, len(page.Items))
	for _, c := range page.Items {
		agent := c.SalesAgentName
		if agent == "" {
			agent = c.SalesAgentID
		}
		rows = append(rows, table.Row{
			c.CustomerName,
			c.PhoneNumber,
			agent,
			c.Priority,
			c.Status,
			strings.TrimSpace(c.ScheduledDate + " " + c.ScheduledTime),
		})
	}

	return m.newTable(columns, rows) + "\n" +
		helpStyle.Render(fmt.Sprintf("page %d/%d · %d callbacks · %s", page.Page, page.TotalPages, page.Total, sortLabel(m.callbackSort)))
}

func (m Model) renderStatus() string {
	var parts []string
	if m.loading {
		parts = append(parts, "refreshing…")
	}
	if m.loaded && !m.snap.FetchedAt.IsZero() {
		parts = append(parts, "updated "+m.snap.FetchedAt.Format("15:04:05"))
	}
	if m.loaded && m.snap.StatsSource == dashboard.SourceLocal {
		parts = append(parts, warnStyle.Render("stats computed locally"))
	}
	if m.snap.Issues > 0 {
		parts = append(parts, warnStyle.Render(fmt.Sprintf("%d malformed fields defaulted", m.snap.Issues)))
	}
	if len(parts) == 0 {
		return ""
	}
	return helpStyle.Render(strings.Join(parts, " · ")) + "\n"
}

func (m Model) renderHelp() string {
	return helpStyle.Render("tab: switch view • s: sort column • d: direction • n/p: page • r: refresh • q: quit")
}
