package intake_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/internal/cooldown"
	"github.com/JaimeStill/warden/internal/intake"
	"github.com/JaimeStill/warden/internal/moderation"
	"github.com/JaimeStill/warden/internal/notify"
	"github.com/JaimeStill/warden/internal/pipeline"
	"github.com/JaimeStill/warden/internal/severity"
	"github.com/JaimeStill/warden/internal/submissions"
	"github.com/JaimeStill/warden/pkg/routes"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recorder struct {
	cmds []submissions.CreateCommand
	err  error
}

func (r *recorder) Create(ctx context.Context, cmd submissions.CreateCommand) (*submissions.Submission, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.cmds = append(r.cmds, cmd)
	fields, _ := json.Marshal(cmd.Payload)
	return &submissions.Submission{
		ID:        uuid.New(),
		Category:  cmd.Payload.Category(),
		Fields:    fields,
		Severity:  cmd.Severity,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type outbox struct{ sent []notify.Message }

func (o *outbox) Name() string { return "outbox" }

func (o *outbox) Notify(ctx context.Context, msg notify.Message) error {
	o.sent = append(o.sent, msg)
	return nil
}

var assessor = moderation.NewAssessor(moderation.DefaultDictionaries())

func setup(rec *recorder, out *outbox) *http.ServeMux {
	d := moderation.DefaultDictionaries()
	rt := &pipeline.Runtime{
		Classifier:  severity.NewClassifier(assessor.Normalizer(), d.Emergency),
		Submissions: rec,
		Throttle:    cooldown.New(cooldown.NewMemoryStore(), cooldown.Options{}, discard),
		Notifier:    out,
		Settings:    pipeline.Settings{PreviewLength: 500},
		Logger:      discard,
	}

	mux := http.NewServeMux()
	routes.Register(mux, intake.NewHandler(assessor, rt, discard).Routes())
	return mux
}

func post(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestScreenHardFilterRejects(t *testing.T) {
	p := &submissions.StudentVoice{
		LearningImprovements: "more labs please",
		OpenFeedback:         "There is a b0mb in the cafeteria",
	}

	_, err := intake.Screen(assessor, p)
	if !errors.Is(err, intake.ErrRejected) {
		t.Fatalf("error = %v, want ErrRejected", err)
	}
	if p.OpenFeedback != "There is a b0mb in the cafeteria" {
		t.Error("rejected payload was modified")
	}
}

func TestScreenSoftFilterMasks(t *testing.T) {
	p := &submissions.DormLife{
		SatisfactionRating: 4,
		Complaints:         "this food is sh1t",
		Suggestions:        "cook better",
	}

	s, err := intake.Screen(assessor, p)
	if err != nil {
		t.Fatalf("Screen() error = %v", err)
	}

	if p.Complaints != "this food is s**t" {
		t.Errorf("complaints = %q", p.Complaints)
	}
	if p.Suggestions != "cook better" {
		t.Errorf("suggestions = %q, want unchanged", p.Suggestions)
	}
	if s.Original != "4 this food is sh1t cook better" {
		t.Errorf("original = %q", s.Original)
	}
	if len(s.Masked) != 1 || s.Masked[0] != 0 {
		t.Errorf("masked = %v, want [0]", s.Masked)
	}
}

func TestScreenCleanPayload(t *testing.T) {
	p := &submissions.BugReport{Title: "Form broken", Description: "The submit button does nothing"}

	s, err := intake.Screen(assessor, p)
	if err != nil {
		t.Fatalf("Screen() error = %v", err)
	}
	if len(s.Masked) != 0 {
		t.Errorf("masked = %v", s.Masked)
	}
}

func TestSubmitCreated(t *testing.T) {
	rec, out := &recorder{}, &outbox{}
	mux := setup(rec, out)

	resp := post(mux, "/feedback/dorm-life", `{"dormBlock":"Block B","satisfactionRating":"4","complaints":"this food is sh1t"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var receipt intake.Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if receipt.Category != submissions.DormLifeCategory {
		t.Errorf("category = %q", receipt.Category)
	}
	if !receipt.Moderated {
		t.Error("moderated = false, want true")
	}

	if len(rec.cmds) != 1 {
		t.Fatalf("recorded = %d", len(rec.cmds))
	}
	stored := rec.cmds[0].Payload.(*submissions.DormLife)
	if stored.Complaints != "this food is s**t" {
		t.Errorf("stored complaints = %q", stored.Complaints)
	}
	if rec.cmds[0].Severity != severity.Low {
		t.Errorf("severity = %s, want LOW", rec.cmds[0].Severity)
	}
	if len(out.sent) != 0 {
		t.Errorf("alerts = %d, want 0", len(out.sent))
	}
}

func TestSubmitCriticalAlerts(t *testing.T) {
	rec, out := &recorder{}, &outbox{}
	mux := setup(rec, out)

	resp := post(mux, "/feedback/student-voice", `{"safetyRating":"1","openFeedback":"I do not feel safe walking back at night"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if len(out.sent) != 1 {
		t.Fatalf("alerts = %d, want 1", len(out.sent))
	}
	if out.sent[0].DisplayName != "Anonymous" {
		t.Errorf("display name = %q", out.sent[0].DisplayName)
	}
}

func TestSubmitErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown form", "/feedback/cafeteria", `{}`, http.StatusNotFound},
		{"malformed json", "/feedback/dorm-life", `{"complaints":`, http.StatusBadRequest},
		{"unknown field", "/feedback/dorm-life", `{"mood":"fine"}`, http.StatusBadRequest},
		{"bad rating", "/feedback/dorm-life", `{"satisfactionRating":"9"}`, http.StatusBadRequest},
		{"short bug title", "/feedback/bug-report", `{"title":"x","description":"long enough text"}`, http.StatusBadRequest},
		{"threat", "/feedback/dorm-life", `{"complaints":"i will kill him"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			resp := post(setup(rec, &outbox{}), tt.path, tt.body)
			if resp.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", resp.Code, tt.status, resp.Body.String())
			}
			if len(rec.cmds) != 0 {
				t.Error("rejected submission was recorded")
			}
		})
	}
}

func TestSubmitRejectionHidesTerms(t *testing.T) {
	resp := post(setup(&recorder{}, &outbox{}), "/feedback/dorm-life", `{"complaints":"bring a knife"}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "knife") {
		t.Errorf("body discloses detected term: %s", resp.Body.String())
	}
}

func TestSubmitPersistFailure(t *testing.T) {
	rec := &recorder{err: errors.New("connection refused")}
	resp := post(setup(rec, &outbox{}), "/feedback/bug-report", `{"title":"Login loop","description":"Redirects back to login forever"}`)
	if resp.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.Code)
	}
}
