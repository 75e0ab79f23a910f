// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the terminal dashboard and the team hierarchy graph
package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/harperreed/salesdesk/viz"
)

// VizDashboardCommand prints the terminal dashboard once.
func VizDashboardCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz dashboard", flag.ExitOnError)
	offline := fs.Bool("offline", false, "Use the latest archived snapshot instead of the backend")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	snap, err := app.snapshot(ctx, *offline)
	if err != nil {
		return err
	}

	fmt.Print(viz.RenderDashboard(snap, time.Now()))
	return nil
}

// VizGraphCommand generates the team → agent revenue graph.
func VizGraphCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz graph", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	title := fs.String("title", "Revenue by team", "Graph title")
	offline := fs.Bool("offline", false, "Use the latest archived snapshot instead of the backend")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := Context()
	defer cancel()

	snap, err := app.snapshot(ctx, *offline)
	if err != nil {
		return err
	}

	dot, err := viz.GenerateTeamGraph(ctx, *title, snap.Deals)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}
