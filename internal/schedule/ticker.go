package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Tick cadences used across the application: the fine ticker keeps
// countdown labels fresh, the coarse ticker drives join-state re-evaluation
// and snapshot polling.
const (
	FineTickInterval   = 1 * time.Second
	CoarseTickInterval = 10 * time.Second
)

// Ticker is a process-wide re-evaluation driver.  It increments a counter
// on a fixed interval and fans the tick out to subscribers so that join
// decisions and countdown labels are recomputed without user interaction.
// None of the underlying decisions are event-driven by the clock, so
// something has to keep asking; this is that something.
type Ticker struct {
	interval time.Duration
	count    atomic.Uint64

	mu   sync.Mutex
	subs []func(tick uint64)
}

// NewTicker returns a Ticker with the given interval.  Run must be called
// for ticks to fire.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = CoarseTickInterval
	}
	return &Ticker{interval: interval}
}

// Subscribe registers fn to be invoked on every tick with the current
// counter value.  Subscribers run synchronously on the ticker goroutine
// and must return quickly.
func (t *Ticker) Subscribe(fn func(tick uint64)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = append(t.subs, fn)
}

// Count returns the number of ticks fired so far.
func (t *Ticker) Count() uint64 {
	return t.count.Load()
}

// Run drives the ticker until ctx is cancelled.  Cancelling the context
// stops the underlying timer, so owners that shut down their view must
// cancel to avoid leaking background work.
func (t *Ticker) Run(ctx context.Context) {
	tick := time.NewTicker(t.interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			t.fire()
		}
	}
}

func (t *Ticker) fire() {
	n := t.count.Add(1)
	t.mu.Lock()
	subs := make([]func(uint64), len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()
	for _, fn := range subs {
		fn(n)
	}
}
