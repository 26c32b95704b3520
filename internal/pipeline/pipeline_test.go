package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/internal/cooldown"
	"github.com/JaimeStill/warden/internal/moderation"
	"github.com/JaimeStill/warden/internal/notify"
	"github.com/JaimeStill/warden/internal/pipeline"
	"github.com/JaimeStill/warden/internal/severity"
	"github.com/JaimeStill/warden/internal/submissions"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recorder struct {
	mu   sync.Mutex
	cmds []submissions.CreateCommand
	err  error
}

func (r *recorder) Create(ctx context.Context, cmd submissions.CreateCommand) (*submissions.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.cmds = append(r.cmds, cmd)
	return &submissions.Submission{
		ID:       uuid.New(),
		Category: cmd.Payload.Category(),
		Severity: cmd.Severity,
	}, nil
}

type outbox struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (o *outbox) Name() string { return "outbox" }

func (o *outbox) Notify(ctx context.Context, msg notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return o.err
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type harness struct {
	rt    *pipeline.Runtime
	rec   *recorder
	out   *outbox
	clock *clock
}

func newHarness() *harness {
	d := moderation.DefaultDictionaries()
	a := moderation.NewAssessor(d)

	h := &harness{
		rec:   &recorder{},
		out:   &outbox{},
		clock: &clock{now: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)},
	}

	throttle := cooldown.New(cooldown.NewMemoryStore(), cooldown.Options{
		Window:   30 * time.Minute,
		FailOpen: true,
		Clock:    h.clock.Now,
	}, discard)

	h.rt = &pipeline.Runtime{
		Classifier:  severity.NewClassifier(a.Normalizer(), d.Emergency),
		Submissions: h.rec,
		Throttle:    throttle,
		Notifier:    h.out,
		Settings: pipeline.Settings{
			ReviewLink:     "https://admin.example.edu/review",
			PreviewLength:  500,
			PersistTimeout: time.Second,
			NotifyTimeout:  time.Second,
			Location:       time.UTC,
			Clock:          h.clock.Now,
		},
		Logger: discard,
	}
	return h
}

func TestProcessCriticalBypassesCooldown(t *testing.T) {
	h := newHarness()
	ctx := t.Context()

	for i := range 3 {
		p := &submissions.StudentVoice{SafetyRating: 1, OpenFeedback: "someone keeps following me"}
		sub, err := pipeline.Process(ctx, h.rt, p, "")
		if err != nil {
			t.Fatalf("Process() #%d error = %v", i, err)
		}
		if sub.Severity != severity.Critical {
			t.Errorf("severity = %s, want CRITICAL", sub.Severity)
		}
	}

	if got := h.out.count(); got != 3 {
		t.Errorf("alerts = %d, want 3", got)
	}

	msg := h.out.sent[0]
	if !strings.HasPrefix(msg.Subject, pipeline.PrefixCritical) {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.Subject != "🚨 CRITICAL ALERT: New Student Voice Submission" {
		t.Errorf("subject = %q", msg.Subject)
	}
}

func TestProcessHighThrottled(t *testing.T) {
	h := newHarness()
	ctx := t.Context()

	first := &submissions.DormLife{SatisfactionRating: 2, Complaints: "the heating is broken"}
	sub, err := pipeline.Process(ctx, h.rt, first, "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sub.Severity != severity.High {
		t.Fatalf("severity = %s, want HIGH", sub.Severity)
	}
	if got := h.out.count(); got != 1 {
		t.Fatalf("alerts after first = %d, want 1", got)
	}

	h.clock.now = h.clock.now.Add(5 * time.Minute)

	second := &submissions.DormLife{SatisfactionRating: 1, Complaints: "still no heating"}
	if _, err := pipeline.Process(ctx, h.rt, second, ""); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := h.out.count(); got != 1 {
		t.Errorf("alerts after second = %d, want 1", got)
	}
	if got := len(h.rec.cmds); got != 2 {
		t.Errorf("recorded = %d, want 2", got)
	}

	other := &submissions.StudentVoice{GeneralExperienceRating: 2}
	if _, err := pipeline.Process(ctx, h.rt, other, ""); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := h.out.count(); got != 2 {
		t.Errorf("alerts after other category = %d, want 2", got)
	}
	if !strings.HasPrefix(h.out.sent[1].Subject, pipeline.PrefixHigh) {
		t.Errorf("subject = %q", h.out.sent[1].Subject)
	}
}

func TestProcessQuietLevels(t *testing.T) {
	tests := []struct {
		name    string
		payload submissions.Payload
		want    severity.Level
	}{
		{
			"medium",
			&submissions.DormLife{SatisfactionRating: 3},
			severity.Medium,
		},
		{
			"low by default",
			&submissions.DormLife{
				Complaints: strings.Repeat("everything about this place is awful and nobody listens ", 10),
			},
			severity.Low,
		},
		{
			"bug report",
			&submissions.BugReport{Title: "Login broken", Description: "The page spins forever", Priority: "High"},
			severity.Low,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			sub, err := pipeline.Process(t.Context(), h.rt, tt.payload, "")
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if sub.Severity != tt.want {
				t.Errorf("severity = %s, want %s", sub.Severity, tt.want)
			}
			if got := h.out.count(); got != 0 {
				t.Errorf("alerts = %d, want 0", got)
			}
			if got := len(h.rec.cmds); got != 1 {
				t.Errorf("recorded = %d, want 1", got)
			}
		})
	}
}

func TestProcessPersistFailure(t *testing.T) {
	h := newHarness()
	h.rec.err = errors.New("connection refused")

	p := &submissions.StudentVoice{SafetyRating: 1}
	sub, err := pipeline.Process(t.Context(), h.rt, p, "")
	if !errors.Is(err, pipeline.ErrPersist) {
		t.Fatalf("error = %v, want ErrPersist", err)
	}
	if sub != nil {
		t.Error("expected nil submission")
	}
	if got := h.out.count(); got != 0 {
		t.Errorf("alerts = %d, want 0 when not recorded", got)
	}
}

func TestProcessNotifyFailureIsNotFatal(t *testing.T) {
	h := newHarness()
	h.out.err = errors.New("telegram: 502")

	p := &submissions.StudentVoice{SafetyRating: 2}
	sub, err := pipeline.Process(t.Context(), h.rt, p, "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sub == nil || sub.Severity != severity.Critical {
		t.Errorf("submission = %+v", sub)
	}
}

func TestProcessClassifiesOriginalText(t *testing.T) {
	h := newHarness()
	d := moderation.DefaultDictionaries()
	a := moderation.NewAssessor(d)

	original := "this food is sh1t"
	res := a.Assess(original)
	if res.Action != moderation.ActionSoftFilter {
		t.Fatalf("action = %s, want soft_filter", res.Action)
	}
	if res.SanitizedText != "this food is s**t" {
		t.Fatalf("sanitized = %q", res.SanitizedText)
	}

	p := &submissions.DormLife{SatisfactionRating: 4, Complaints: res.SanitizedText}
	sub, err := pipeline.Process(t.Context(), h.rt, p, "4 "+original)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sub.Severity != severity.Low {
		t.Errorf("severity = %s, want LOW", sub.Severity)
	}

	stored := h.rec.cmds[0].Payload.(*submissions.DormLife)
	if stored.Complaints != "this food is s**t" {
		t.Errorf("stored complaints = %q, want masked", stored.Complaints)
	}
}

func TestProcessMaskingCannotHideEmergency(t *testing.T) {
	h := newHarness()

	p := &submissions.DormLife{Complaints: "s******e in the hallway"}
	sub, err := pipeline.Process(t.Context(), h.rt, p, "shitfire in the hallway")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sub.Severity != severity.Critical {
		t.Errorf("severity = %s, want CRITICAL", sub.Severity)
	}
	if got := h.out.sent[0].Body; strings.Contains(got, "shitfire") {
		t.Errorf("alert body leaks unmasked text: %q", got)
	}
}

func TestFormatMessage(t *testing.T) {
	at := time.Date(2026, 3, 2, 21, 5, 9, 0, time.UTC)
	long := strings.Repeat("é", 600)
	signed := false

	p := &submissions.StudentVoice{OpenFeedback: long, IsAnonymous: &signed}
	msg := pipeline.FormatMessage(p, severity.High, long, at, pipeline.Settings{
		ReviewLink:    "https://admin.example.edu/review",
		PreviewLength: 500,
	})

	if msg.Subject != "⚠️ HIGH PRIORITY: New Student Voice Submission" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.Time != "3/2/2026, 9:05:09 PM" {
		t.Errorf("time = %q", msg.Time)
	}
	if msg.DisplayName != "Signed Student" {
		t.Errorf("display name = %q", msg.DisplayName)
	}
	if msg.Link != "https://admin.example.edu/review" {
		t.Errorf("link = %q", msg.Link)
	}

	want := "Summary: " + strings.Repeat("é", 500) + "...\n\n"
	if !strings.Contains(msg.Body, want) {
		t.Error("body missing 500 rune preview")
	}
	if !strings.HasSuffix(msg.Body, "(Log in to dashboard for full details)") {
		t.Errorf("body suffix: %q", msg.Body[len(msg.Body)-40:])
	}
	if !strings.Contains(msg.Body, "Severity: HIGH\nTime: 3/2/2026, 9:05:09 PM\n") {
		t.Errorf("body header: %q", msg.Body)
	}
	if !utf8.ValidString(msg.Body) {
		t.Error("body is not valid UTF-8")
	}
}

func TestFormatMessageAnonymous(t *testing.T) {
	p := &submissions.BugReport{Title: "Broken", Description: "The form does not submit"}
	msg := pipeline.FormatMessage(p, severity.Critical, "short", time.Now(), pipeline.Settings{})

	if msg.DisplayName != "Anonymous" {
		t.Errorf("display name = %q", msg.DisplayName)
	}
	if !strings.Contains(msg.Body, "Summary: short...") {
		t.Errorf("body = %q", msg.Body)
	}
}
