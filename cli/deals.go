// ABOUTME: Deal CLI commands
// ABOUTME: Human-friendly commands for listing, adding, updating and deleting deals
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/harperreed/salesdesk/handlers"
	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
)

func (a *App) dealHandlers() *handlers.DealHandlers {
	return handlers.NewDealHandlers(a.Client, a.Service, a.Config.Identity)
}

// ListDealsCommand lists the deals visible to the configured identity.
func ListDealsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("deals list", flag.ExitOnError)
	sortBy := fs.String("sort", "createdAt", "Sort field (createdAt, amount, customerName, agent, team, tier, status)")
	dir := fs.String("dir", "desc", "Sort direction (asc, desc)")
	page := fs.Int("page", 1, "Page number")
	pageSize := fs.Int("page-size", app.Config.PageSize, "Rows per page")
	status := fs.String("status", "", "Filter by status")
	offline := fs.Bool("offline", false, "Use the latest archived snapshot instead of the backend")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	snap, err := app.snapshot(ctx, *offline)
	if err != nil {
		return err
	}

	deals := snap.Deals
	if *status != "" {
		filtered := make([]models.Deal, 0, len(deals))
		for _, d := range deals {
			if d.Status == *status {
				filtered = append(filtered, d)
			}
		}
		deals = filtered
	}

	printDeals(os.Stdout, report.SortAndPage(deals, *sortBy, report.ParseDirection(*dir), *page, *pageSize))
	return nil
}

func printDeals(out io.Writer, page report.Page[models.Deal]) {
	if page.Total == 0 {
		_, _ = fmt.Fprintln(out, "No deals found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CUSTOMER\tAMOUNT\tAGENT\tTEAM\tSTATUS\tCREATED\tID")
	_, _ = fmt.Fprintln(w, "--------\t------\t-----\t----\t------\t-------\t--")
	for _, d := range page.Items {
		agent := d.SalesAgentName
		if agent == "" {
			agent = d.SalesAgentID
		}
		_, _ = fmt.Fprintf(w, "%s\t$%s\t%s\t%s\t%s\t%s\t%s\n",
			d.CustomerName, d.Amount, agent, dash(d.Team), d.Status, d.CreatedAt.Day(nil), d.DealID)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(out, "\nPage %d of %d (%d deals)\n", page.Page, page.TotalPages, page.Total)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// AddDealCommand books a new deal under the configured identity.
func AddDealCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("deals add", flag.ExitOnError)
	customer := fs.String("customer", "", "Customer name (required)")
	amount := fs.Float64("amount", 0, "Amount paid, e.g. 1250.50")
	tier := fs.String("tier", "", "Service tier")
	closer := fs.String("closer", "", "Closing agent user id")
	status := fs.String("status", "", "Status (pending, active, completed, cancelled)")
	_ = fs.Parse(args)

	if *customer == "" {
		return fmt.Errorf("--customer is required")
	}

	ctx, cancel := Context()
	defer cancel()

	_, out, err := app.dealHandlers().CreateDeal(ctx, nil, handlers.CreateDealInput{
		CustomerName: *customer,
		Amount:       *amount,
		ServiceTier:  *tier,
		ClosingAgent: *closer,
		Status:       *status,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Deal created: %s (ID: %s)\n", out.Deal.CustomerName, out.Deal.DealID)
	fmt.Printf("  Amount: $%s\n", out.Deal.Amount)
	fmt.Printf("  Status: %s\n", out.Deal.Status)
	return nil
}

// UpdateDealCommand updates amount, status or tier of a visible deal.
func UpdateDealCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("deals update", flag.ExitOnError)
	amount := fs.Float64("amount", -1, "New amount")
	status := fs.String("status", "", "New status")
	tier := fs.String("tier", "", "New service tier")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("deal ID required")
	}

	input := handlers.UpdateDealInput{ID: fs.Arg(0), Status: *status, ServiceTier: *tier}
	if *amount >= 0 {
		input.Amount = amount
	}

	ctx, cancel := Context()
	defer cancel()

	_, out, err := app.dealHandlers().UpdateDeal(ctx, nil, input)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Deal updated: %s ($%s, %s)\n", out.Deal.CustomerName, out.Deal.Amount, out.Deal.Status)
	return nil
}

// DeleteDealCommand deletes a deal. Managers only.
func DeleteDealCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("deals delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("deal ID required")
	}

	ctx, cancel := Context()
	defer cancel()

	if _, _, err := app.dealHandlers().DeleteDeal(ctx, nil, handlers.DeleteInput{ID: fs.Arg(0)}); err != nil {
		return err
	}
	fmt.Printf("✓ Deal deleted: %s\n", fs.Arg(0))
	return nil
}
