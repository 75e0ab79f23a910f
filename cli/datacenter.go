// ABOUTME: Data center and feedback CLI commands
// ABOUTME: Lists and posts announcements, and records or triages feedback on them
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/salesdesk/handlers"
)

func (a *App) dataCenterHandlers() *handlers.DataCenterHandlers {
	return handlers.NewDataCenterHandlers(a.Client, a.Config.Identity, a.Config.DateRangeDays)
}

// ListDataCenterCommand lists entries addressed to the identity.
func ListDataCenterCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("datacenter list", flag.ExitOnError)
	dataType := fs.String("type", "", "Filter by type (general, file, announcement, training, policy)")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	_, out, err := app.dataCenterHandlers().ListDataCenter(ctx, nil, handlers.ListDataCenterInput{DataType: *dataType})
	if err != nil {
		return err
	}
	if len(out.Entries) == 0 {
		fmt.Println("No data center entries found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tTYPE\tPRIORITY\tTO\tFROM\tCREATED\tID")
	_, _ = fmt.Fprintln(w, "-----\t----\t--------\t--\t----\t-------\t--")
	for _, e := range out.Entries {
		to := e.SentToTeam
		if to == "" {
			to = "@" + e.SentToID
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Title, e.DataType, e.Priority, to, dash(e.SentByName), e.CreatedAt.Day(nil), e.ID)
	}
	return w.Flush()
}

// PostDataCenterCommand posts an entry to a team or to one user.
func PostDataCenterCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("datacenter post", flag.ExitOnError)
	title := fs.String("title", "", "Title (required)")
	description := fs.String("description", "", "Short description")
	content := fs.String("content", "", "Body")
	dataType := fs.String("type", "", "Type (general, file, announcement, training, policy)")
	priority := fs.String("priority", "", "Priority (low, medium, high, urgent)")
	team := fs.String("team", "", "Address to this team")
	user := fs.String("user", "", "Address to this user id")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	_, out, err := app.dataCenterHandlers().PostDataCenter(ctx, nil, handlers.PostDataCenterInput{
		Title:       *title,
		Description: *description,
		Content:     *content,
		DataType:    *dataType,
		Priority:    *priority,
		SentToTeam:  *team,
		SentToID:    *user,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Entry posted: %s (ID: %s)\n", out.Entry.Title, out.Entry.ID)
	return nil
}

// DeleteDataCenterCommand deletes an entry. Managers only.
func DeleteDataCenterCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("datacenter delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("entry ID required")
	}

	ctx, cancel := Context()
	defer cancel()

	if _, _, err := app.dataCenterHandlers().DeleteDataCenter(ctx, nil, handlers.DeleteInput{ID: fs.Arg(0)}); err != nil {
		return err
	}
	fmt.Printf("✓ Entry deleted: %s\n", fs.Arg(0))
	return nil
}

// ListFeedbackCommand lists feedback, optionally for one entry.
func ListFeedbackCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("feedback list", flag.ExitOnError)
	entry := fs.String("entry", "", "Data center entry id")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	_, out, err := app.dataCenterHandlers().ListFeedback(ctx, nil, handlers.ListFeedbackInput{DataID: *entry})
	if err != nil {
		return err
	}
	if len(out.Feedback) == 0 {
		fmt.Println("No feedback found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FROM\tTYPE\tRATING\tSTATUS\tFEEDBACK\tID")
	_, _ = fmt.Fprintln(w, "----\t----\t------\t------\t--------\t--")
	for _, f := range out.Feedback {
		rating := "-"
		if f.Rating > 0 {
			rating = fmt.Sprintf("%d/5", f.Rating)
		}
		from := f.UserName
		if from == "" {
			from = f.UserID
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", from, f.FeedbackType, rating, f.Status, f.FeedbackText, f.ID)
	}
	return w.Flush()
}

// AddFeedbackCommand records feedback on an entry.
func AddFeedbackCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("feedback add", flag.ExitOnError)
	entry := fs.String("entry", "", "Data center entry id (required)")
	text := fs.String("text", "", "Feedback text (required)")
	rating := fs.Int("rating", 0, "Rating 1-5")
	feedbackType := fs.String("type", "", "Type (general, question, suggestion, concern, acknowledgment)")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	_, out, err := app.dataCenterHandlers().AddFeedback(ctx, nil, handlers.AddFeedbackInput{
		DataID:       *entry,
		Text:         *text,
		Rating:       *rating,
		FeedbackType: *feedbackType,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Feedback recorded (ID: %s)\n", out.Feedback.ID)
	return nil
}

// FeedbackStatusCommand sets a feedback status: salesdesk feedback status <id> <status>.
func FeedbackStatusCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("feedback status", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: feedback status <id> <pending|in_progress|resolved|closed>")
	}

	ctx, cancel := Context()
	defer cancel()

	_, out, err := app.dataCenterHandlers().SetFeedbackStatus(ctx, nil, handlers.SetFeedbackStatusInput{
		ID:     fs.Arg(0),
		Status: fs.Arg(1),
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Feedback %s is now %s\n", out.ID, out.Status)
	return nil
}
