// ABOUTME: Callback CLI commands
// ABOUTME: Lists, schedules, moves through the status workflow and deletes callbacks
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/salesdesk/handlers"
	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
)

func (a *App) callbackHandlers() *handlers.CallbackHandlers {
	return handlers.NewCallbackHandlers(a.Client, a.Service, a.Config.Identity)
}

// ListCallbacksCommand lists the callbacks visible to the configured identity.
func ListCallbacksCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("callbacks list", flag.ExitOnError)
	sortBy := fs.String("sort", "createdAt", "Sort field (createdAt, priority, customerName, status, scheduledDate)")
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

	callbacks := snap.Callbacks
	if *status != "" {
		filtered := make([]models.Callback, 0, len(callbacks))
		for _, c := range callbacks {
			if c.Status == *status {
				filtered = append(filtered, c)
			}
		}
		callbacks = filtered
	}

	printCallbacks(os.Stdout, report.SortAndPage(callbacks, *sortBy, report.ParseDirection(*dir), *page, *pageSize))
	return nil
}

func printCallbacks(out io.Writer, page report.Page[models.Callback]) {
	if page.Total == 0 {
		_, _ = fmt.Fprintln(out, "No callbacks found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CUSTOMER\tPHONE\tPRIORITY\tSTATUS\tSCHEDULED\tNEXT\tID")
	_, _ = fmt.Fprintln(w, "--------\t-----\t--------\t------\t---------\t----\t--")
	for _, c := range page.Items {
		next := strings.Join(models.NextCallbackStatuses(c.Status), ",")
		scheduled := strings.TrimSpace(c.ScheduledDate + " " + c.ScheduledTime)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.CustomerName, dash(c.PhoneNumber), c.Priority, c.Status, dash(scheduled), dash(next), c.CallbackID)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(out, "\nPage %d of %d (%d callbacks)\n", page.Page, page.TotalPages, page.Total)
}

// AddCallbackCommand schedules a callback under the configured identity.
func AddCallbackCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("callbacks add", flag.ExitOnError)
	customer := fs.String("customer", "", "Customer name (required)")
	phone := fs.String("phone", "", "Phone number (required)")
	email := fs.String("email", "", "Email address")
	priority := fs.String("priority", "", "Priority (low, medium, high, urgent)")
	date := fs.String("date", "", "Scheduled date (YYYY-MM-DD)")
	at := fs.String("time", "", "Scheduled time (HH:MM)")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	if *customer == "" {
		return fmt.Errorf("--customer is required")
	}

	ctx, cancel := Context()
	defer cancel()

	_, out, err := app.callbackHandlers().CreateCallback(ctx, nil, handlers.CreateCallbackInput{
		CustomerName:  *customer,
		PhoneNumber:   *phone,
		Email:         *email,
		Priority:      *priority,
		ScheduledDate: *date,
		ScheduledTime: *at,
		Notes:         *notes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Callback scheduled: %s (ID: %s)\n", out.Callback.CustomerName, out.Callback.CallbackID)
	fmt.Printf("  Priority: %s\n", out.Callback.Priority)
	return nil
}

// MoveCallbackCommand moves a callback to a new status: salesdesk callbacks move <id> <status>.
func MoveCallbackCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("callbacks move", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: callbacks move <id> <contacted|completed|cancelled>")
	}

	ctx, cancel := Context()
	defer cancel()

	_, out, err := app.callbackHandlers().TransitionCallback(ctx, nil, handlers.TransitionCallbackInput{
		ID:     fs.Arg(0),
		Status: fs.Arg(1),
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Callback %s is now %s\n", out.Callback.CallbackID, out.Callback.Status)
	if len(out.Next) > 0 {
		fmt.Printf("  Next: %s\n", strings.Join(out.Next, ", "))
	}
	return nil
}

// DeleteCallbackCommand deletes a callback the identity may edit.
func DeleteCallbackCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("callbacks delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("callback ID required")
	}

	ctx, cancel := Context()
	defer cancel()

	if _, _, err := app.callbackHandlers().DeleteCallback(ctx, nil, handlers.DeleteInput{ID: fs.Arg(0)}); err != nil {
		return err
	}
	fmt.Printf("✓ Callback deleted: %s\n", fs.Arg(0))
	return nil
}
