package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/railmon/railmon/internal/aggregate"
	"github.com/railmon/railmon/internal/railway"
)

// Status is the externally visible state of the poller.
type Status string

const (
	// StatusNotReady means no cycle has succeeded yet.
	StatusNotReady Status = "not_ready"

	// StatusOK means the most recent cycle succeeded.
	StatusOK Status = "ok"

	// StatusUpdateFailed means a cycle failed after a prior success; the
	// previous snapshot remains the visible one.
	StatusUpdateFailed Status = "update_failed"

	// StatusAuthFailed means the credential was rejected. Terminal until
	// the process is restarted with a new token.
	StatusAuthFailed Status = "auth_failed"
)

// Fetcher produces one merged snapshot per call.
type Fetcher interface {
	FetchAll(ctx context.Context) (*aggregate.Snapshot, error)
}

// Poller invokes a Fetcher on a fixed, runtime-adjustable interval and
// exposes the last-known-good snapshot. Safe for concurrent use.
type Poller struct {
	fetch Fetcher

	mu          sync.RWMutex
	interval    time.Duration
	snap        *aggregate.Snapshot
	status      Status
	lastSuccess bool
	cycles      int

	subs      []func(*aggregate.Snapshot)
	cycleSubs []func(*aggregate.Snapshot, Status)
	reset     chan time.Duration
}

// New creates a Poller that calls fetch every interval once Run is started.
func New(fetch Fetcher, interval time.Duration) *Poller {
	return &Poller{
		fetch:    fetch,
		interval: interval,
		status:   StatusNotReady,
		reset:    make(chan time.Duration, 1),
	}
}

// OnUpdate registers fn to be called with each newly swapped-in snapshot.
// Must be called before Run. Callbacks run on the poll goroutine and must
// not block.
func (p *Poller) OnUpdate(fn func(*aggregate.Snapshot)) {
	p.subs = append(p.subs, fn)
}

// OnCycle registers fn to be called after every cycle, successful or not,
// with the last-known-good snapshot (nil before the first success) and the
// resulting status. Must be called before Run. Callbacks run on the poll
// goroutine and must not block.
func (p *Poller) OnCycle(fn func(*aggregate.Snapshot, Status)) {
	p.cycleSubs = append(p.cycleSubs, fn)
}

// Snapshot returns the last-known-good snapshot, or nil before the first
// successful cycle. The returned snapshot must not be mutated.
func (p *Poller) Snapshot() *aggregate.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// LastUpdateSucceeded reports whether the most recent cycle succeeded.
func (p *Poller) LastUpdateSucceeded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSuccess
}

// Status returns the externally visible poller state.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Interval returns the currently configured poll interval.
func (p *Poller) Interval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interval
}

// SetInterval changes the poll interval, effective from the next tick.
// Non-positive durations are ignored.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	if d == p.interval {
		p.mu.Unlock()
		return
	}
	p.interval = d
	p.mu.Unlock()

	select {
	case p.reset <- d:
	default:
	}
	slog.Info("poller: interval changed", "interval", d)
}

// Run executes the first cycle immediately, then keeps polling every interval
// until ctx is cancelled or an auth failure makes further cycles pointless.
func (p *Poller) Run(ctx context.Context) {
	if !p.runCycle(ctx) {
		return
	}

	t := time.NewTicker(p.Interval())
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-p.reset:
			t.Reset(d)
		case <-t.C:
			if !p.runCycle(ctx) {
				return
			}
		}
	}
}

// runCycle performs one fetch and folds the outcome into the poller state.
// It returns false when polling should stop (auth failure or cancellation).
func (p *Poller) runCycle(ctx context.Context) bool {
	p.mu.Lock()
	p.cycles++
	cycle := p.cycles
	p.mu.Unlock()

	start := time.Now()
	snap, err := p.fetch.FetchAll(ctx)
	elapsed := time.Since(start)

	if err == nil {
		p.mu.Lock()
		p.snap = snap
		p.lastSuccess = true
		p.status = StatusOK
		p.mu.Unlock()

		slog.Info("poller: cycle succeeded",
			"cycle", cycle,
			"elapsed", elapsed,
			"projects", len(snap.Projects),
			"workspaces", len(snap.Workspaces),
		)
		for _, fn := range p.subs {
			fn(snap)
		}
		p.notifyCycle()
		return true
	}

	if ctx.Err() != nil {
		return false
	}

	var authErr *railway.AuthError
	var connErr *railway.ConnError
	switch {
	case errors.As(err, &authErr):
		p.mu.Lock()
		p.lastSuccess = false
		p.status = StatusAuthFailed
		p.mu.Unlock()
		slog.Error("poller: credential rejected, stopping", "err", err)
		p.notifyCycle()
		return false

	case errors.As(err, &connErr) && cycle == 1:
		p.mu.Lock()
		p.lastSuccess = false
		p.status = StatusNotReady
		p.mu.Unlock()
		slog.Warn("poller: first cycle could not connect, will retry", "err", err)
		p.notifyCycle()
		return true

	default:
		p.mu.Lock()
		p.lastSuccess = false
		p.status = StatusUpdateFailed
		p.mu.Unlock()
		slog.Warn("poller: cycle failed, keeping previous snapshot",
			"cycle", cycle, "err", err)
		p.notifyCycle()
		return true
	}
}

// notifyCycle runs the per-cycle subscribers with the current state.
func (p *Poller) notifyCycle() {
	p.mu.RLock()
	snap, status := p.snap, p.status
	p.mu.RUnlock()
	for _, fn := range p.cycleSubs {
		fn(snap, status)
	}
}
