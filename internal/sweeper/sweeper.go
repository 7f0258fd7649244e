// Package sweeper bounds occupancy ledger growth.  Days far enough in
// the past can never be referenced by a new booking, so their ledger
// rows are dead weight; a recurring task deletes them.
package sweeper

import (
    "context"
    "log"
    "time"

    "github.com/digitalbooking/campsite-booking/internal/utils"
)

// Purger is the slice of the occupancy ledger the sweeper needs.
// *repository.OccupancyRepo satisfies it.
type Purger interface {
    PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically deletes occupancy records older than the
// retention horizon.  It only ever touches past days, which no in-flight
// availability check can reference, so it runs safely alongside confirm
// transitions.  Each pass is idempotent: a second run right after the
// first deletes nothing.
type Sweeper struct {
    purger        Purger
    retentionDays int
    interval      time.Duration
    now           func() time.Time
}

// New builds a sweeper that keeps retentionDays of history and wakes up
// every interval.  retentionDays at or below zero falls back to 30, the
// reference horizon.
func New(purger Purger, retentionDays int, interval time.Duration) *Sweeper {
    if retentionDays <= 0 {
        retentionDays = 30
    }
    if interval <= 0 {
        interval = 24 * time.Hour
    }
    return &Sweeper{
        purger:        purger,
        retentionDays: retentionDays,
        interval:      interval,
        now:           func() time.Time { return time.Now().UTC() },
    }
}

// Run sweeps once immediately and then on every tick until the context
// is cancelled.  Failures are logged and the loop keeps going; a missed
// purge only delays cleanup, it never corrupts the ledger.
func (s *Sweeper) Run(ctx context.Context) {
    s.sweep(ctx)
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            s.sweep(ctx)
        }
    }
}

// Cutoff returns the day before which records are purged: anything
// strictly older than the retention horizon counted back from today.
func (s *Sweeper) Cutoff() time.Time {
    return utils.Day(s.now()).AddDate(0, 0, -s.retentionDays)
}

func (s *Sweeper) sweep(ctx context.Context) {
    cutoff := s.Cutoff()
    removed, err := s.purger.PurgeBefore(ctx, cutoff)
    if err != nil {
        log.Printf("sweeper: purge before %s failed: %v", utils.FormatDay(cutoff), err)
        return
    }
    if removed > 0 {
        log.Printf("sweeper: removed %d occupancy records older than %s", removed, utils.FormatDay(cutoff))
    }
}
