package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// RunGC reclaims value log space on a fixed cadence until ctx is
// cancelled. Badger rewrites at most one log file per call, so each tick
// keeps calling until nothing is left to rewrite.
func RunGC(ctx context.Context, db *badger.DB, interval time.Duration, log *slog.Logger) {
	log.Info("Starting value log GC loop", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rewritten := 0
			for db.RunValueLogGC(0.5) == nil {
				rewritten++
			}
			if rewritten > 0 {
				log.Debug("Value log GC pass complete", "rewritten_files", rewritten)
			}
		}
	}
}
