package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvTelegramToken   = "WARDEN_TELEGRAM_TOKEN"
	EnvTelegramChatIDs = "WARDEN_TELEGRAM_CHAT_IDS"

	EnvEmailJSServiceID  = "WARDEN_EMAILJS_SERVICE_ID"
	EnvEmailJSTemplateID = "WARDEN_EMAILJS_TEMPLATE_ID"
	EnvEmailJSPublicKey  = "WARDEN_EMAILJS_PUBLIC_KEY"
	EnvEmailJSPrivateKey = "WARDEN_EMAILJS_PRIVATE_KEY"
	EnvEmailJSRecipients = "WARDEN_EMAILJS_RECIPIENTS"
)

// NotifyConfig holds credentials for each alert channel. A channel without
// credentials is not registered.
type NotifyConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
	EmailJS  EmailJSConfig  `toml:"emailjs"`
}

// TelegramConfig configures the Telegram bot channel.
type TelegramConfig struct {
	Token   string  `toml:"token"`
	ChatIDs []int64 `toml:"chat_ids"`
}

// Enabled reports whether the bot can send anywhere.
func (c *TelegramConfig) Enabled() bool {
	return c.Token != "" && len(c.ChatIDs) > 0
}

// EmailJSConfig configures the EmailJS REST channel.
type EmailJSConfig struct {
	ServiceID  string   `toml:"service_id"`
	TemplateID string   `toml:"template_id"`
	PublicKey  string   `toml:"public_key"`
	PrivateKey string   `toml:"private_key"`
	Recipients []string `toml:"recipients"`
	Endpoint   string   `toml:"endpoint"`
}

// Enabled reports whether enough is set to send an email.
func (c *EmailJSConfig) Enabled() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != "" && len(c.Recipients) > 0
}

// Finalize applies environment variable overrides and validation.
func (c *NotifyConfig) Finalize() error {
	if v := os.Getenv(EnvTelegramToken); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv(EnvTelegramChatIDs); v != "" {
		ids, err := parseChatIDs(v)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		c.Telegram.ChatIDs = ids
	}

	for key, dst := range map[string]*string{
		EnvEmailJSServiceID:  &c.EmailJS.ServiceID,
		EnvEmailJSTemplateID: &c.EmailJS.TemplateID,
		EnvEmailJSPublicKey:  &c.EmailJS.PublicKey,
		EnvEmailJSPrivateKey: &c.EmailJS.PrivateKey,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv(EnvEmailJSRecipients); v != "" {
		c.EmailJS.Recipients = splitList(v)
	}

	if c.Telegram.Token != "" && len(c.Telegram.ChatIDs) == 0 {
		return fmt.Errorf("telegram: token set without chat_ids")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *NotifyConfig) Merge(overlay *NotifyConfig) {
	if overlay.Telegram.Token != "" {
		c.Telegram.Token = overlay.Telegram.Token
	}
	if overlay.Telegram.ChatIDs != nil {
		c.Telegram.ChatIDs = overlay.Telegram.ChatIDs
	}

	e, o := &c.EmailJS, &overlay.EmailJS
	if o.ServiceID != "" {
		e.ServiceID = o.ServiceID
	}
	if o.TemplateID != "" {
		e.TemplateID = o.TemplateID
	}
	if o.PublicKey != "" {
		e.PublicKey = o.PublicKey
	}
	if o.PrivateKey != "" {
		e.PrivateKey = o.PrivateKey
	}
	if o.Recipients != nil {
		e.Recipients = o.Recipients
	}
	if o.Endpoint != "" {
		e.Endpoint = o.Endpoint
	}
}

func parseChatIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
