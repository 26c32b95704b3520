package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/warden/internal/notify"
	"github.com/JaimeStill/warden/internal/severity"
	"github.com/JaimeStill/warden/internal/submissions"
)

// Recorder persists a classified submission.
type Recorder interface {
	Create(ctx context.Context, cmd submissions.CreateCommand) (*submissions.Submission, error)
}

// Gate rate-limits HIGH severity alerts per category.
type Gate interface {
	TryAcquire(ctx context.Context, category string) bool
}

// Settings holds the alert formatting and I/O bounds.
type Settings struct {
	ReviewLink     string
	PreviewLength  int
	PersistTimeout time.Duration
	NotifyTimeout  time.Duration
	Location       *time.Location
	Clock          func() time.Time
}

// Runtime bundles what Process needs. It is assembled once by the API module
// and shared by every request.
type Runtime struct {
	Classifier  *severity.Classifier
	Submissions Recorder
	Throttle    Gate
	Notifier    notify.Notifier
	Settings    Settings
	Logger      *slog.Logger
}

func (s Settings) now() time.Time {
	now := time.Now()
	if s.Clock != nil {
		now = s.Clock()
	}
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
