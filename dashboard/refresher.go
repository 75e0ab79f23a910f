// ABOUTME: Periodic and on-demand dashboard reloads
// ABOUTME: Superseded loads are cancelled and their responses discarded

package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/harperreed/salesdesk/logging"
	"go.uber.org/zap"
)

// DefaultRefreshInterval matches the dashboard's two-minute polling.
const DefaultRefreshInterval = 120 * time.Second

type LoadFunc func(ctx context.Context) Snapshot

type Refresher struct {
	load     LoadFunc
	deliver  func(Snapshot)
	interval time.Duration
	logger   *zap.Logger

	seq       Sequence
	deliverMu sync.Mutex
	trigger   chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRefresher(load LoadFunc, interval time.Duration, deliver func(Snapshot), logger *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		load:     load,
		deliver:  deliver,
		interval: interval,
		logger:   logging.OrNop(logger),
		trigger:  make(chan struct{}, 1),
	}
}

// Start loads immediately and then on every tick or Trigger. Calling Start
// on a running refresher does nothing.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.run(ctx, r.done)
}

// Trigger requests a reload without waiting for the next tick.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels in-flight loads, discards their results and waits for the
// refresher's goroutines to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if done == nil {
		return
	}
	r.seq.Invalidate()
	cancel()
	<-done
}

func (r *Refresher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	var wg sync.WaitGroup
	defer wg.Wait()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var cancelPrev context.CancelFunc
	start := func() {
		// Supersede before cancelling so a cancelled load can never pass the latest check.
		token := r.seq.Next()
		if cancelPrev != nil {
			cancelPrev()
		}
		loadCtx, cancel := context.WithCancel(ctx)
		cancelPrev = cancel

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cancel()

			snap := r.load(loadCtx)

			r.deliverMu.Lock()
			defer r.deliverMu.Unlock()
			if !r.seq.IsLatest(token) {
				r.logger.Debug("discarding stale dashboard response", zap.Uint64("token", token))
				return
			}
			r.deliver(snap)
		}()
	}

	start()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start()
		case <-r.trigger:
			start()
		}
	}
}
