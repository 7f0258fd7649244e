package sweeper

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/digitalbooking/campsite-booking/internal/utils"
)

type purgerSpy struct {
    mu      sync.Mutex
    cutoffs []time.Time
    removed int64
}

func (p *purgerSpy) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.cutoffs = append(p.cutoffs, cutoff)
    r := p.removed
    p.removed = 0 // everything older than the cutoff is gone after one pass
    return r, nil
}

func (p *purgerSpy) calls() []time.Time {
    p.mu.Lock()
    defer p.mu.Unlock()
    out := make([]time.Time, len(p.cutoffs))
    copy(out, p.cutoffs)
    return out
}

func TestCutoffUsesRetentionHorizon(t *testing.T) {
    s := New(&purgerSpy{}, 30, time.Hour)
    s.now = func() time.Time {
        return time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)
    }
    assert.Equal(t, "2024-02-14", utils.FormatDay(s.Cutoff()))
}

func TestNewDefaults(t *testing.T) {
    s := New(&purgerSpy{}, 0, 0)
    assert.Equal(t, 30, s.retentionDays)
    assert.Equal(t, 24*time.Hour, s.interval)
}

func TestRunSweepsImmediatelyAndStopsOnCancel(t *testing.T) {
    spy := &purgerSpy{removed: 7}
    s := New(spy, 30, time.Hour) // interval long enough to never tick here

    ctx, cancel := context.WithCancel(context.Background())
    done := make(chan struct{})
    go func() {
        s.Run(ctx)
        close(done)
    }()

    require.Eventually(t, func() bool { return len(spy.calls()) == 1 }, time.Second, 5*time.Millisecond)
    cancel()
    select {
    case <-done:
    case <-time.After(time.Second):
        t.Fatal("sweeper did not stop after cancellation")
    }
}

func TestRepeatedSweepsAreIdempotent(t *testing.T) {
    spy := &purgerSpy{removed: 3}
    s := New(spy, 30, 10*time.Millisecond)
    s.now = func() time.Time {
        return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
    }

    ctx, cancel := context.WithCancel(context.Background())
    go s.Run(ctx)
    require.Eventually(t, func() bool { return len(spy.calls()) >= 3 }, time.Second, 5*time.Millisecond)
    cancel()

    // Every pass targets the same cutoff while the clock stands still, and
    // only the first pass found anything to remove.
    calls := spy.calls()
    for _, c := range calls {
        assert.Equal(t, "2024-02-14", utils.FormatDay(c))
    }
}
