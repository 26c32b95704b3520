package cooldown

import (
	"context"
	"time"
)

// Store persists the last-sent time per category. Acquire must be atomic per
// category: it permits only when no timestamp is recorded or the recorded
// one is at least window old, and it writes now only when it permits.
// Other categories are never touched.
type Store interface {
	// Acquire reports whether the caller may notify for category. last is
	// the timestamp in force after the call: now when permitted, otherwise
	// the prior send.
	Acquire(ctx context.Context, category string, now time.Time, window time.Duration) (ok bool, last time.Time, err error)
	// Snapshot returns every recorded category and its last-sent time.
	Snapshot(ctx context.Context) (map[string]time.Time, error)
}
