// Package pipeline classifies, records, and alerts on screened submissions.
package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/warden/internal/severity"
	"github.com/JaimeStill/warden/internal/submissions"
)

// Process runs one screened submission to completion. The payload must
// already have passed moderation. original is the aggregated text captured
// before screening and is what severity is classified from, so a masked
// token cannot hide an emergency keyword. When empty, the payload's own
// values are used. Only a persistence failure is returned, wrapped in
// ErrPersist; cooldown and delivery failures are logged.
func Process(
	ctx context.Context,
	rt *Runtime,
	p submissions.Payload,
	original string,
) (*submissions.Submission, error) {
	category := p.Category()
	logger := rt.Logger.With("category", category)

	text := Aggregate(p)
	if original == "" {
		original = text
	}

	sig := p.Signals()
	sig.Text = original
	level := rt.Classifier.Classify(sig)
	logger.Info("submission classified", "severity", level)

	sub, err := persist(ctx, rt, p, level)
	if err != nil {
		logger.Error("submission not recorded", "severity", level, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	// The record exists from here on; a client disconnect must not cancel
	// the alert for it.
	alertCtx := context.WithoutCancel(ctx)

	if !shouldNotify(alertCtx, rt, category, level) {
		return sub, nil
	}

	msg := FormatMessage(p, level, text, rt.Settings.now(), rt.Settings)

	nctx, cancel := withTimeout(alertCtx, rt.Settings.NotifyTimeout)
	defer cancel()

	if err := rt.Notifier.Notify(nctx, msg); err != nil {
		logger.Warn("alert delivery failed", "id", sub.ID, "severity", level, "error", err)
		return sub, nil
	}

	logger.Info("alert dispatched", "id", sub.ID, "severity", level)
	return sub, nil
}

func persist(
	ctx context.Context,
	rt *Runtime,
	p submissions.Payload,
	level severity.Level,
) (*submissions.Submission, error) {
	pctx, cancel := withTimeout(ctx, rt.Settings.PersistTimeout)
	defer cancel()

	return rt.Submissions.Create(pctx, submissions.CreateCommand{
		Payload:  p,
		Severity: level,
	})
}

func shouldNotify(ctx context.Context, rt *Runtime, category submissions.Category, level severity.Level) bool {
	switch level {
	case severity.Critical:
		rt.Logger.Info("emergency override, cooldown bypassed", "category", category)
		return true
	case severity.High:
		if rt.Throttle.TryAcquire(ctx, string(category)) {
			return true
		}
		rt.Logger.Info("high priority alert skipped during cooldown", "category", category)
		return false
	default:
		return false
	}
}
