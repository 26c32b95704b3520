// Package notify delivers operator alerts over the configured channels.
// Delivery is best effort: callers log failures and move on.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Message is one operator alert.
type Message struct {
	Subject     string `json:"subject"`
	DisplayName string `json:"name"`
	Time        string `json:"time"`
	Body        string `json:"message"`
	Link        string `json:"link"`
}

// Text renders the message for plain-text channels.
func (m Message) Text() string {
	var b strings.Builder
	b.WriteString(m.Body)
	fmt.Fprintf(&b, "\n\nFrom: %s", m.DisplayName)
	if m.Link != "" {
		fmt.Fprintf(&b, "\nReview: %s", m.Link)
	}
	return b.String()
}

// Notifier sends a Message over one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// Log writes alerts to the service log. It stands in when no delivery
// channel is configured.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log notifier.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger.With("notifier", "log")}
}

func (l *Log) Name() string { return "log" }

func (l *Log) Notify(ctx context.Context, msg Message) error {
	l.logger.Info(
		"alert",
		"subject", msg.Subject,
		"name", msg.DisplayName,
		"time", msg.Time,
		"link", msg.Link,
	)
	return nil
}
