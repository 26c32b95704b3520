// Package cooldown limits how often HIGH severity alerts fire per category.
package cooldown

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// DefaultWindow is the minimum gap between two alerts for one category.
const DefaultWindow = 30 * time.Minute

// Options configures a Throttle.
type Options struct {
	Window   time.Duration
	FailOpen bool
	Timeout  time.Duration
	Clock    func() time.Time
}

// Throttle decides whether a category may alert now.
type Throttle struct {
	store    Store
	window   time.Duration
	failOpen bool
	timeout  time.Duration
	clock    func() time.Time
	logger   *slog.Logger
}

// New creates a Throttle. A zero Window falls back to DefaultWindow and a nil
// Clock to time.Now.
func New(store Store, opts Options, logger *slog.Logger) *Throttle {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Throttle{
		store:    store,
		window:   opts.Window,
		failOpen: opts.FailOpen,
		timeout:  opts.Timeout,
		clock:    opts.Clock,
		logger:   logger.With("system", "cooldown"),
	}
}

// Window returns the configured cooldown window.
func (t *Throttle) Window() time.Duration {
	return t.window
}

// FailOpen reports whether store failures permit alerts.
func (t *Throttle) FailOpen() bool {
	return t.failOpen
}

// TryAcquire reports whether category may notify now and records the send
// when it may. A store failure resolves to the FailOpen policy.
func (t *Throttle) TryAcquire(ctx context.Context, category string) bool {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	now := t.clock()
	ok, last, err := t.store.Acquire(ctx, category, now, t.window)
	if err != nil {
		t.logger.Error(
			"cooldown check failed",
			"category", category,
			"fail_open", t.failOpen,
			"error", err,
		)
		return t.failOpen
	}

	if !ok {
		wait := t.window - now.Sub(last)
		t.logger.Info(
			"alert throttled",
			"category", category,
			"wait_minutes", int(math.Round(wait.Minutes())),
		)
	}

	return ok
}

// Snapshot returns the recorded last-sent time for every category.
func (t *Throttle) Snapshot(ctx context.Context) (map[string]time.Time, error) {
	return t.store.Snapshot(ctx)
}
