// ABOUTME: Report CLI commands
// ABOUTME: Prints summary, revenue breakdowns, daily trend and agent leaderboard, live or offline
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
)

// ReportSummaryCommand prints the headline metrics.
func ReportSummaryCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("report summary", flag.ExitOnError)
	offline := fs.Bool("offline", false, "Use the latest archived snapshot instead of the backend")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	snap, err := app.snapshot(ctx, *offline)
	if err != nil {
		return err
	}
	printSummary(os.Stdout, snap)
	return nil
}

func printSummary(out io.Writer, snap dashboard.Snapshot) {
	s := snap.Summary
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Scope:\t%s %s (last %d days)\n", snap.Identity.Role, snap.Identity.ID, snap.DateRangeDays)
	_, _ = fmt.Fprintf(w, "Total revenue:\t$%s\n", s.TotalRevenue)
	_, _ = fmt.Fprintf(w, "Deals:\t%d (%d completed)\n", s.TotalDeals, s.CompletedDeals)
	_, _ = fmt.Fprintf(w, "Average deal:\t$%s\n", s.AverageDealSize)
	_, _ = fmt.Fprintf(w, "Callbacks:\t%d (%d completed)\n", s.TotalCallbacks, s.CompletedCallbacks)
	_, _ = fmt.Fprintf(w, "Conversion:\t%.1f%%\n", s.ConversionRate)
	_, _ = fmt.Fprintf(w, "Stats source:\t%s\n", snap.StatsSource)
	if snap.Issues > 0 {
		_, _ = fmt.Fprintf(w, "Malformed fields:\t%d defaulted\n", snap.Issues)
	}
	_ = w.Flush()
}

// ReportRevenueCommand prints revenue grouped by a dimension.
func ReportRevenueCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("report revenue", flag.ExitOnError)
	by := fs.String("by", "agent", "Group by: agent, closing_agent, team, tier, status, day")
	limit := fs.Int("limit", 0, "Maximum groups to show (0 for all)")
	offline := fs.Bool("offline", false, "Use the latest archived snapshot instead of the backend")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	snap, err := app.snapshot(ctx, *offline)
	if err != nil {
		return err
	}
	groups, err := report.RevenueBy(snap.Deals, *by)
	if err != nil {
		return err
	}
	groups = report.Top(groups, *limit)
	printGroups(os.Stdout, groups)
	return nil
}

func printGroups(out io.Writer, groups []report.GroupTotal) {
	if len(groups) == 0 {
		_, _ = fmt.Fprintln(out, "No deals found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "GROUP\tDEALS\tREVENUE\tKEY")
	_, _ = fmt.Fprintln(w, "-----\t-----\t-------\t---")
	var total models.Money
	for _, g := range groups {
		total += g.Revenue
		_, _ = fmt.Fprintf(w, "%s\t%d\t$%s\t%s\n", g.Label, g.Deals, g.Revenue, g.Key)
	}
	_, _ = fmt.Fprintf(w, "TOTAL\t\t$%s\t\n", total)
	_ = w.Flush()
}

// ReportTrendCommand prints the zero-filled daily revenue trend.
func ReportTrendCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("report trend", flag.ExitOnError)
	offline := fs.Bool("offline", false, "Use the latest archived snapshot instead of the backend")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	snap, err := app.snapshot(ctx, *offline)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DAY\tDEALS\tREVENUE")
	_, _ = fmt.Fprintln(w, "---\t-----\t-------")
	for _, p := range snap.Charts.SalesTrend {
		_, _ = fmt.Fprintf(w, "%s\t%d\t$%s\n", p.Day, p.Count, p.Revenue)
	}
	return w.Flush()
}

// ReportAgentsCommand prints the agent leaderboard.
func ReportAgentsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("report agents", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Maximum agents to show (0 for all)")
	offline := fs.Bool("offline", false, "Use the latest archived snapshot instead of the backend")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	snap, err := app.snapshot(ctx, *offline)
	if err != nil {
		return err
	}

	rows := report.AgentPerformance(snap.Deals, snap.Callbacks)
	rows = report.Top(rows, *limit)
	printAgents(os.Stdout, rows)
	return nil
}

func printAgents(out io.Writer, rows []report.AgentRow) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(out, "No agents found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "AGENT\tREVENUE\tDEALS\tAVG\tCALLBACKS\tCONVERSION")
	_, _ = fmt.Fprintln(w, "-----\t-------\t-----\t---\t---------\t----------")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t$%s\t%d\t$%s\t%d/%d\t%.1f%%\n",
			r.AgentName, r.Revenue, r.Deals, r.AverageDealSize, r.CompletedCallbacks, r.Callbacks, r.ConversionRate)
	}
	_ = w.Flush()
}
