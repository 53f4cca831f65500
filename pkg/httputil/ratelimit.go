package httputil

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// Rate-limit defaults. trackmania.io allows roughly 40 requests per window.
const (
	DefaultLowWater = 5
	DefaultBackoff  = time.Minute
)

// Response headers read by [RateLimit.Update].
const (
	HeaderLimit     = "X-Ratelimit-Limit"
	HeaderRemaining = "X-Ratelimit-Remaining"
	HeaderReset     = "X-Ratelimit-Reset"
)

// RateLimit tracks the most recently reported rate-limit state.
// Updates are last-writer-wins; a stale value only makes one pause decision
// slightly early or late.
type RateLimit struct {
	limit     atomic.Int64
	remaining atomic.Int64
	reset     atomic.Int64 // unix seconds, 0 when unknown

	// LowWater is the remaining count at or below which Wait pauses.
	LowWater int
	// Backoff is how long Wait pauses.
	Backoff time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// RateState is a point-in-time copy of the tracker.
type RateState struct {
	Limit     int
	Remaining int
	Reset     time.Time
	Known     bool
}

// NewRateLimit creates a tracker with unknown state and default thresholds.
func NewRateLimit() *RateLimit {
	r := &RateLimit{
		LowWater: DefaultLowWater,
		Backoff:  DefaultBackoff,
		now:      time.Now,
		sleep:    sleepContext,
	}
	r.limit.Store(-1)
	r.remaining.Store(-1)
	return r
}

// Update reads the x-ratelimit-* headers. Missing or malformed headers
// leave the previous values in place.
func (r *RateLimit) Update(h http.Header) {
	if v, err := strconv.ParseInt(h.Get(HeaderLimit), 10, 64); err == nil {
		r.limit.Store(v)
	}
	if v, err := strconv.ParseInt(h.Get(HeaderRemaining), 10, 64); err == nil {
		r.remaining.Store(v)
	}
	if v, err := strconv.ParseInt(h.Get(HeaderReset), 10, 64); err == nil {
		// Small values are relative seconds, large ones a unix timestamp.
		if v < 1_000_000_000 {
			v = r.now().Add(time.Duration(v) * time.Second).Unix()
		}
		r.reset.Store(v)
	}
}

// Snapshot returns the current state.
func (r *RateLimit) Snapshot() RateState {
	s := RateState{
		Limit:     int(r.limit.Load()),
		Remaining: int(r.remaining.Load()),
	}
	if ts := r.reset.Load(); ts > 0 {
		s.Reset = time.Unix(ts, 0)
	}
	s.Known = s.Remaining >= 0
	return s
}

// ShouldPause reports whether remaining is known and at or below LowWater.
func (r *RateLimit) ShouldPause() bool {
	rem := r.remaining.Load()
	return rem >= 0 && rem <= int64(r.LowWater)
}

// Wait sleeps for Backoff when ShouldPause is true. It reports whether it
// paused and returns ctx.Err() if the context ends first.
func (r *RateLimit) Wait(ctx context.Context) (bool, error) {
	if !r.ShouldPause() {
		return false, ctx.Err()
	}
	if err := r.sleep(ctx, r.Backoff); err != nil {
		return true, err
	}
	return true, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
