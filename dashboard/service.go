// ABOUTME: Loads a role-scoped dashboard snapshot from the backend
// ABOUTME: Fetches concurrently or paced in sequence and falls back to local stats and charts

package dashboard

import (
	"context"
	"time"

	"github.com/harperreed/salesdesk/backend"
	"github.com/harperreed/salesdesk/logging"
	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source records where a snapshot's stats or charts came from.
const (
	SourceBackend = "backend"
	SourceLocal   = "local"
)

// Fetcher is the read side of the backend client.
type Fetcher interface {
	Deals(ctx context.Context, q backend.Query) backend.DealsResult
	Callbacks(ctx context.Context, q backend.Query) backend.CallbacksResult
	DashboardStats(ctx context.Context, q backend.Query) backend.StatsResult
	Charts(ctx context.Context, q backend.Query) backend.ChartsResult
}

// Snapshot is one role-scoped fetch of everything the dashboard shows.
type Snapshot struct {
	Identity      models.Identity   `json:"identity"`
	DateRangeDays int               `json:"dateRangeDays"`
	Deals         []models.Deal     `json:"deals"`
	Callbacks     []models.Callback `json:"callbacks"`
	Summary       models.Summary    `json:"summary"`
	Charts        models.Charts     `json:"charts"`
	StatsSource   string            `json:"statsSource"`
	ChartsSource  string            `json:"chartsSource"`
	// Success is true only when both deals and callbacks were fetched.
	Success   bool      `json:"success"`
	Issues    int       `json:"issues"`
	FetchedAt time.Time `json:"fetchedAt"`
}

type Service struct {
	fetcher       Fetcher
	logger        *zap.Logger
	dateRangeDays int
	sequential    bool
	pace          time.Duration
	location      *time.Location
	now           func() time.Time
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(logger) }
}

func WithDateRange(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.dateRangeDays = days
		}
	}
}

// WithSequential runs the backend calls one after another, pausing pace
// between them.
func WithSequential(pace time.Duration) Option {
	return func(s *Service) {
		s.sequential = true
		s.pace = pace
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:       fetcher,
		logger:        zap.NewNop(),
		dateRangeDays: 30,
		location:      time.UTC,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) DateRangeDays() int {
	return s.dateRangeDays
}

// Load fetches and scopes a snapshot for id. It never fails; check
// Snapshot.Success. A cancelled ctx yields an unsuccessful snapshot.
func (s *Service) Load(ctx context.Context, id models.Identity) Snapshot {
	q := backend.QueryFor(id, s.dateRangeDays)

	var (
		deals     backend.DealsResult
		callbacks backend.CallbacksResult
		stats     backend.StatsResult
		charts    backend.ChartsResult
	)

	if s.sequential {
		steps := []func(){
			func() { deals = s.fetcher.Deals(ctx, q) },
			func() { callbacks = s.fetcher.Callbacks(ctx, q) },
			func() { stats = s.fetcher.DashboardStats(ctx, q) },
			func() { charts = s.fetcher.Charts(ctx, q) },
		}
		for i, step := range steps {
			if i > 0 && !s.wait(ctx) {
				break
			}
			step()
		}
	} else {
		var g errgroup.Group
		g.Go(func() error { deals = s.fetcher.Deals(ctx, q); return nil })
		g.Go(func() error { callbacks = s.fetcher.Callbacks(ctx, q); return nil })
		g.Go(func() error { stats = s.fetcher.DashboardStats(ctx, q); return nil })
		g.Go(func() error { charts = s.fetcher.Charts(ctx, q); return nil })
		_ = g.Wait()
	}

	return s.assemble(id, deals, callbacks, stats, charts)
}

// wait sleeps for the pacing delay and reports whether ctx is still live.
func (s *Service) wait(ctx context.Context) bool {
	if s.pace <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(s.pace)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Service) assemble(id models.Identity, deals backend.DealsResult, callbacks backend.CallbacksResult, stats backend.StatsResult, charts backend.ChartsResult) Snapshot {
	visibleDeals := report.FilterVisible(deals.Deals, id)
	visibleCallbacks := report.FilterVisible(callbacks.Callbacks, id)
	if visibleDeals == nil {
		visibleDeals = []models.Deal{}
	}
	if visibleCallbacks == nil {
		visibleCallbacks = []models.Callback{}
	}

	snap := Snapshot{
		Identity:      id,
		DateRangeDays: s.dateRangeDays,
		Deals:         visibleDeals,
		Callbacks:     visibleCallbacks,
		Success:       deals.Success && callbacks.Success,
		Issues:        len(deals.Issues) + len(callbacks.Issues) + len(stats.Issues) + len(charts.Issues),
		FetchedAt:     s.now(),
	}

	local := report.Summarize(visibleDeals, visibleCallbacks)
	if stats.Success {
		snap.Summary = stats.Summary
		snap.StatsSource = SourceBackend
		if snap.Summary.TotalCallbacks == 0 && local.TotalCallbacks > 0 {
			snap.Summary.TotalCallbacks = local.TotalCallbacks
			snap.Summary.CompletedCallbacks = local.CompletedCallbacks
			snap.Summary.ConversionRate = local.ConversionRate
		}
	} else {
		snap.Summary = local
		snap.StatsSource = SourceLocal
		s.logger.Info("using locally computed stats", zap.Error(stats.Err))
	}

	if charts.Success {
		snap.Charts = charts.Charts
		snap.ChartsSource = SourceBackend
	} else {
		snap.Charts = report.BuildCharts(visibleDeals, s.dateRangeDays, snap.FetchedAt, s.location)
		snap.ChartsSource = SourceLocal
		s.logger.Info("using locally aggregated charts", zap.Error(charts.Err))
	}

	if !snap.Success {
		s.logger.Warn("dashboard snapshot incomplete",
			zap.String("role", id.Role),
			zap.Bool("deals_ok", deals.Success),
			zap.Bool("callbacks_ok", callbacks.Success))
	}
	return snap
}
