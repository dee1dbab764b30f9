package mla

import (
	"context"
	"sync"

	"github.com/alphaf42/keralamla/backend/pkg/logger"
)

// ProfileView holds the profile currently on display for one viewer. A
// new selection supersedes any in-flight resolve cycle: each cycle gets a
// monotonically increasing generation token, and a cycle's result is
// applied only when its token still matches the latest issued one. Late
// results from superseded cycles are discarded, never displayed.
type ProfileView struct {
	resolver *Resolver

	mu      sync.Mutex
	gen     uint64
	current *ResolvedProfile
}

// NewProfileView creates an empty view over resolver.
func NewProfileView(resolver *Resolver) *ProfileView {
	return &ProfileView{resolver: resolver}
}

// Cycle is one issued resolve cycle. Wait blocks until the cycle
// finishes; Stale reports whether a newer selection superseded it.
type Cycle struct {
	gen  uint64
	done chan struct{}

	profile *ResolvedProfile
	err     error
	stale   bool
}

// Wait blocks until the cycle completes or ctx is done.
func (c *Cycle) Wait(ctx context.Context) (*ResolvedProfile, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return c.profile, c.err
	}
}

// Stale reports whether the cycle was superseded before its result could
// be applied. A cycle still in flight is not stale yet; waiters that gave
// up early see false until the cycle actually finishes.
func (c *Cycle) Stale() bool {
	select {
	case <-c.done:
		return c.stale
	default:
		return false
	}
}

// Select starts a resolve cycle for ref, superseding any cycle still in
// flight. The returned Cycle completes when the resolve finishes, whether
// or not its result was applied.
func (v *ProfileView) Select(ctx context.Context, ref ConstituencyRef) *Cycle {
	v.mu.Lock()
	v.gen++
	c := &Cycle{gen: v.gen, done: make(chan struct{})}
	v.mu.Unlock()

	go func() {
		defer close(c.done)

		profile, err := v.resolver.Resolve(ctx, ref)

		v.mu.Lock()
		defer v.mu.Unlock()

		if c.gen != v.gen {
			// A newer selection superseded this cycle while it was in
			// flight; its result must never reach the display.
			c.stale = true
			logger.Debug("Discarding stale resolve cycle", "constituency", ref.ID)
			return
		}

		c.profile = profile
		c.err = err
		if err == nil {
			v.current = profile
		}
	}()

	return c
}

// Current returns the most recently applied profile, or nil before the
// first completed cycle.
func (v *ProfileView) Current() *ResolvedProfile {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}
