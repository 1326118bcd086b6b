// Package barrier implements a reusable cyclic rendezvous point for exactly
// N participants: every goroutine calls Wait, and the caller whose arrival
// closes out the round is handed an "epoch closer" slot to run bookkeeping
// before the rest of the cohort is released. Workers here are long-lived and
// persistent rather than spawned fresh per tick, so the barrier is built
// directly on sync.Cond, the standard library's rendezvous primitive.
package barrier

import "sync"

// Barrier is a reusable rendezvous for exactly N participants. Each call to
// Wait blocks until N goroutines have called Wait, then all are released
// together. The barrier can be reused for the next round immediately.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	arrived int
	epoch   uint64
}

// New creates a Barrier for exactly n participants. n must be >= 1.
func New(n int) *Barrier {
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks the caller until n participants have all called Wait for the
// current epoch. The goroutine that raises arrived to n is the "epoch
// closer": last==true only for that caller, letting it run per-epoch
// bookkeeping (e.g. advancing time_step) before releasing everyone else.
func (b *Barrier) Wait() (last bool) {
	return b.WaitFunc(nil)
}

// WaitFunc behaves like Wait, but the epoch closer runs closer (if non-nil)
// while still holding the barrier's internal lock, strictly before the rest
// of the cohort is released. This lets per-round bookkeeping (advance
// time_step, refill the pool, or run the reach propagator and signal
// termination) become fully visible to every worker before any of them
// proceeds into the next round.
func (b *Barrier) WaitFunc(closer func()) (last bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	epoch := b.epoch
	b.arrived++
	if b.arrived == b.n {
		b.arrived = 0
		if closer != nil {
			closer()
		}
		b.epoch++
		b.cond.Broadcast()
		return true
	}
	for epoch == b.epoch {
		b.cond.Wait()
	}
	return false
}

// N reports the configured participant count.
func (b *Barrier) N() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

// Resize changes the participant count for subsequent rounds. Must only be
// called when no goroutine is blocked in Wait (e.g. while the simulator is
// stopped), since changing the agent or worker count only takes effect at a
// step boundary.
func (b *Barrier) Resize(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.n = n
	b.arrived = 0
}
