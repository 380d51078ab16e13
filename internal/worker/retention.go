package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ftbldata/tmscraper/internal/store"
)

// Retention periodically deletes player rows that have not been refreshed
// within the configured window, so the store never serves data older than one
// scrape cycle plus the window.
type Retention struct {
	store    *store.Store
	maxAge   time.Duration
	interval time.Duration
}

func NewRetention(store *store.Store, maxAge time.Duration) *Retention {
	return &Retention{
		store:    store,
		maxAge:   maxAge,
		interval: 24 * time.Hour,
	}
}

func (r *Retention) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *Retention) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Run immediately on startup
	r.cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cleanup(ctx)
		}
	}
}

func (r *Retention) cleanup(ctx context.Context) {
	count, err := r.store.DeleteStalePlayers(ctx, r.maxAge)
	if err != nil {
		slog.Error("retention cleanup failed", "error", err)
		return
	}
	slog.Info("retention cleanup done", "deleted", count, "max_age", r.maxAge.String())
}
