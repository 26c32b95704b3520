package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultEmailJSEndpoint is the EmailJS REST send URL.
const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSOptions configures the EmailJS channel.
type EmailJSOptions struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	Recipients []string
	Endpoint   string
}

// EmailJS sends alerts through an EmailJS template. All recipients share
// one request.
type EmailJS struct {
	opts   EmailJSOptions
	client *http.Client
	logger *slog.Logger
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// NewEmailJS creates an EmailJS notifier.
func NewEmailJS(opts EmailJSOptions, client *http.Client, logger *slog.Logger) *EmailJS {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEmailJSEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &EmailJS{
		opts:   opts,
		client: client,
		logger: logger.With("notifier", "emailjs"),
	}
}

func (e *EmailJS) Name() string { return "emailjs" }

func (e *EmailJS) Notify(ctx context.Context, msg Message) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:   e.opts.ServiceID,
		TemplateID:  e.opts.TemplateID,
		UserID:      e.opts.PublicKey,
		AccessToken: e.opts.PrivateKey,
		TemplateParams: map[string]string{
			"to_email": strings.Join(e.opts.Recipients, ", "),
			"subject":  msg.Subject,
			"name":     msg.DisplayName,
			"time":     msg.Time,
			"message":  msg.Body,
			"link":     msg.Link,
		},
	})
	if err != nil {
		return fmt.Errorf("encode emailjs request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("send emailjs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("emailjs returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	e.logger.Debug("alert emailed", "recipients", len(e.opts.Recipients))
	return nil
}
