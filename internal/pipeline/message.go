package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/warden/internal/notify"
	"github.com/JaimeStill/warden/internal/severity"
	"github.com/JaimeStill/warden/internal/submissions"
)

const (
	PrefixCritical = "🚨 CRITICAL ALERT"
	PrefixHigh     = "⚠️ HIGH PRIORITY"

	// TimeLayout renders alert timestamps like "3/2/2026, 9:30:00 AM".
	TimeLayout = "1/2/2006, 3:04:05 PM"

	defaultPreviewLength = 500
)

// Aggregate joins the payload's string values with single spaces.
func Aggregate(p submissions.Payload) string {
	return strings.Join(p.Values(), " ")
}

// Prefix returns the subject prefix for an alerting level, or "" when the
// level never alerts.
func Prefix(level severity.Level) string {
	switch level {
	case severity.Critical:
		return PrefixCritical
	case severity.High:
		return PrefixHigh
	default:
		return ""
	}
}

// FormatMessage builds the operator alert for a stored submission.
func FormatMessage(
	p submissions.Payload,
	level severity.Level,
	text string,
	at time.Time,
	s Settings,
) notify.Message {
	subject := fmt.Sprintf("%s: New %s Submission", Prefix(level), p.Category())
	stamp := at.Format(TimeLayout)

	limit := s.PreviewLength
	if limit <= 0 {
		limit = defaultPreviewLength
	}

	var b strings.Builder
	b.WriteString(subject)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Severity: %s\n", level)
	fmt.Fprintf(&b, "Time: %s\n", stamp)
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "Summary: %s...\n\n", preview(text, limit))
	b.WriteString("(Log in to dashboard for full details)")

	name := "Signed Student"
	if p.Anonymous() {
		name = "Anonymous"
	}

	return notify.Message{
		Subject:     subject,
		DisplayName: name,
		Time:        stamp,
		Body:        b.String(),
		Link:        s.ReviewLink,
	}
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
