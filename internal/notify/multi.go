package notify

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Multi fans a Message out to every channel concurrently. One channel
// failing does not cancel the others.
type Multi struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewMulti creates a Multi over notifiers.
func NewMulti(logger *slog.Logger, notifiers ...Notifier) *Multi {
	return &Multi{
		notifiers: notifiers,
		logger:    logger.With("system", "notify"),
	}
}

func (m *Multi) Name() string { return "multi" }

// Channels returns the names of the wrapped notifiers.
func (m *Multi) Channels() []string {
	names := make([]string, len(m.notifiers))
	for i, n := range m.notifiers {
		names[i] = n.Name()
	}
	return names
}

// Notify returns the first channel error after every channel has finished.
// Each failure is logged with its channel name.
func (m *Multi) Notify(ctx context.Context, msg Message) error {
	var g errgroup.Group

	for _, n := range m.notifiers {
		g.Go(func() error {
			if err := n.Notify(ctx, msg); err != nil {
				m.logger.Warn("channel delivery failed", "channel", n.Name(), "error", err)
				return fmt.Errorf("%s: %w", n.Name(), err)
			}
			m.logger.Debug("channel delivered", "channel", n.Name())
			return nil
		})
	}

	return g.Wait()
}
