// ABOUTME: Interactive dashboard subcommand
// ABOUTME: Runs the Bubble Tea dashboard fed by the periodic snapshot refresher
package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/tui"
)

// TUICommand launches the interactive dashboard.
func TUICommand(app *App) error {
	id, timeout := app.Config.Identity, app.Config.Timeout
	load := func(ctx context.Context) dashboard.Snapshot {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return app.Service.Load(ctx, id)
	}

	var p *tea.Program
	refresher := dashboard.NewRefresher(load, app.Config.RefreshInterval, func(snap dashboard.Snapshot) {
		p.Send(tui.SnapshotMsg(snap))
	}, app.Logger)

	model := tui.NewModel(refresher, id, tui.Options{PageSize: app.Config.PageSize})
	p = tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := Context()
	defer cancel()

	refresher.Start(ctx)
	// Stop after Run returns: Send no longer blocks once the program has exited.
	defer refresher.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
