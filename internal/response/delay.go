package response

import (
	"context"
	"math/rand"
	"time"

	"mockagent/internal/config"
)

// resolveDelay applies the fixed/min/max resolution rule from the
// delay spec: fixed_ms wins if set; otherwise a uniform random value
// in [min_ms, max_ms] if max exceeds min; otherwise min_ms.
func resolveDelay(d *config.DelaySpec) uint64 {
	if d == nil {
		return 0
	}
	if d.FixedMs > 0 {
		return d.FixedMs
	}
	if d.MaxMs > d.MinMs {
		span := d.MaxMs - d.MinMs + 1
		return d.MinMs + uint64(rand.Int63n(int64(span)))
	}
	return d.MinMs
}

// sleepCancellable blocks for durationMs or until ctx is cancelled,
// whichever comes first. It reports ctx.Err() when cancelled early so
// callers can abandon the reply instead of emitting one.
func sleepCancellable(ctx context.Context, durationMs uint64) error {
	if durationMs == 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(durationMs) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
