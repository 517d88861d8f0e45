package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultWatchInterval is how often WatchDataVersion polls when given a
// non-positive interval
const DefaultWatchInterval = 500 * time.Millisecond

// WatchDataVersion calls onChange whenever another connection commits to the
// database file, until ctx is done. It polls PRAGMA data_version, which only
// moves for commits made through other connections, so writes made through db
// itself are not reported. InitDB keeps db on a single connection; if the pool
// replaces it the counter restarts and one spurious change may be reported.
//
// It returns ctx.Err() on cancellation, or the first polling error.
func WatchDataVersion(ctx context.Context, db *sql.DB, interval time.Duration, onChange func()) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	last, err := dataVersion(ctx, db)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			current, err := dataVersion(ctx, db)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			if current != last {
				last = current
				onChange()
			}
		}
	}
}

func dataVersion(ctx context.Context, db *sql.DB) (int64, error) {
	var v int64
	if err := db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read data version: %w", err)
	}
	return v, nil
}
