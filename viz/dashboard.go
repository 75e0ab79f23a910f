// ABOUTME: Terminal dashboard rendering for a role-scoped snapshot
// ABOUTME: Draws summary stats, revenue bars and callbacks that need attention as ASCII
package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/models"
)

const barWidth = 10

// RenderDashboard renders snap as plain text. now decides which scheduled
// callbacks are overdue.
func RenderDashboard(snap dashboard.Snapshot, now time.Time) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  SALESDESK DASHBOARD\n")
	fmt.Fprintf(&out, "  %s %s · last %d days\n", roleLabel(snap.Identity.Role), snap.Identity.Name, snap.DateRangeDays)
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	if !snap.Success {
		out.WriteString("  ⚠️  data could not be loaded; figures below may be incomplete\n\n")
	}

	s := snap.Summary
	out.WriteString("SUMMARY\n")
	fmt.Fprintf(&out, "  💰 $%s revenue  💼 %d deals  📈 $%s avg\n", s.TotalRevenue, s.TotalDeals, s.AverageDealSize)
	fmt.Fprintf(&out, "  📞 %d callbacks  ✅ %d completed  🎯 %.1f%% conversion\n\n", s.TotalCallbacks, s.CompletedCallbacks, s.ConversionRate)

	renderSeries(&out, "REVENUE BY AGENT", snap.Charts.SalesByAgent)
	renderSeries(&out, "REVENUE BY TEAM", snap.Charts.SalesByTeam)
	renderSeries(&out, "SERVICE TIERS", snap.Charts.ServiceTier)

	overdue := OverdueCallbacks(snap.Callbacks, now)
	if len(overdue) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		fmt.Fprintf(&out, "  ⚠️  %d callbacks - scheduled time has passed\n", len(overdue))
		for _, c := range overdue {
			fmt.Fprintf(&out, "     %s %s  %s (%s)\n", c.ScheduledDate, c.ScheduledTime, c.CustomerName, c.Priority)
		}
	}

	return out.String()
}

func roleLabel(role string) string {
	switch role {
	case models.RoleManager:
		return "Manager"
	case models.RoleTeamLeader:
		return "Team leader"
	case models.RoleSalesman:
		return "Salesman"
	}
	return "Unknown role"
}

func renderSeries(out *strings.Builder, title string, points []models.ChartPoint) {
	if len(points) == 0 {
		return
	}
	out.WriteString(title + "\n")

	// Find max revenue for scaling
	var max models.Money
	for _, p := range points {
		if p.Revenue > max {
			max = p.Revenue
		}
	}
	if max == 0 {
		max = 1
	}

	for _, p := range points {
		barLength := int(p.Revenue * barWidth / max)
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", barWidth-barLength)
		fmt.Fprintf(out, "  %-16s %s  %3d  $%s\n", truncate(p.Label, 16), bar, p.Count, p.Revenue)
	}
	out.WriteString("\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// OverdueCallbacks returns open callbacks whose scheduled date and time are
// before now. Callbacks without a parseable schedule are skipped.
func OverdueCallbacks(callbacks []models.Callback, now time.Time) []models.Callback {
	var overdue []models.Callback
	for _, c := range callbacks {
		if c.Status != models.CallbackPending && c.Status != models.CallbackContacted {
			continue
		}
		at, ok := scheduledAt(c, now.Location())
		if ok && at.Before(now) {
			overdue = append(overdue, c)
		}
	}
	return overdue
}

func scheduledAt(c models.Callback, loc *time.Location) (time.Time, bool) {
	if c.ScheduledDate == "" {
		return time.Time{}, false
	}
	if c.ScheduledTime != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04", c.ScheduledDate+" "+c.ScheduledTime, loc); err == nil {
			return t, true
		}
	}
	t, err := time.ParseInLocation(models.DayLayout, c.ScheduledDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	// A date without a time is due by the end of that day.
	return t.AddDate(0, 0, 1), true
}
