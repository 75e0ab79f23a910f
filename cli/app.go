// ABOUTME: Shared wiring for CLI commands
// ABOUTME: Builds the backend client, dashboard service and snapshot archive from config
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/salesdesk/backend"
	"github.com/harperreed/salesdesk/config"
	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/db"
	"github.com/harperreed/salesdesk/logging"
	"go.uber.org/zap"
)

// App carries what every command needs.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Client  *backend.Client
	Service *dashboard.Service
}

func NewApp(cfg *config.Config, logger *zap.Logger) *App {
	logger = logging.OrNop(logger)
	client := backend.NewClient(cfg.BaseURL,
		backend.WithToken(cfg.Token),
		backend.WithTimeout(cfg.Timeout),
		backend.WithLogger(logger),
	)

	opts := []dashboard.Option{
		dashboard.WithLogger(logger),
		dashboard.WithDateRange(cfg.DateRangeDays),
	}
	if cfg.Sequential {
		opts = append(opts, dashboard.WithSequential(cfg.Pace))
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Service: dashboard.NewService(client, opts...),
	}
}

// OpenArchive opens the snapshot database named in the config.
func (a *App) OpenArchive() (*sql.DB, error) {
	database, err := db.OpenDatabase(a.Config.SnapshotDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot archive: %w", err)
	}
	return database, nil
}

// Context returns a context cancelled on SIGINT or SIGTERM.
func Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// snapshot loads the caller's live snapshot, or the latest archived one when offline is set.
func (a *App) snapshot(ctx context.Context, offline bool) (dashboard.Snapshot, error) {
	if offline {
		database, err := a.OpenArchive()
		if err != nil {
			return dashboard.Snapshot{}, err
		}
		defer database.Close()

		snap, err := db.LatestSnapshot(database, a.Config.Identity)
		if err != nil {
			return dashboard.Snapshot{}, err
		}
		if snap == nil {
			return dashboard.Snapshot{}, fmt.Errorf("no archived snapshot for %s %s; run 'salesdesk snapshot save' first", a.Config.Identity.Role, a.Config.Identity.ID)
		}
		return *snap, nil
	}

	snap := a.Service.Load(ctx, a.Config.Identity)
	if !snap.Success {
		return snap, fmt.Errorf("failed to load dashboard data from %s", a.Client.BaseURL())
	}
	return snap, nil
}
