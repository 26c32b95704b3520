package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvAlertsCooldown        = "WARDEN_ALERTS_COOLDOWN"
	EnvAlertsCooldownStore   = "WARDEN_ALERTS_COOLDOWN_STORE"
	EnvAlertsFailOpen        = "WARDEN_ALERTS_FAIL_OPEN"
	EnvAlertsPreviewLength   = "WARDEN_ALERTS_PREVIEW_LENGTH"
	EnvAlertsReviewLink      = "WARDEN_ALERTS_REVIEW_LINK"
	EnvAlertsTimezone        = "WARDEN_ALERTS_TIMEZONE"
	EnvAlertsPersistTimeout  = "WARDEN_ALERTS_PERSIST_TIMEOUT"
	EnvAlertsCooldownTimeout = "WARDEN_ALERTS_COOLDOWN_TIMEOUT"
	EnvAlertsNotifyTimeout   = "WARDEN_ALERTS_NOTIFY_TIMEOUT"
)

// Cooldown store backends.
const (
	CooldownStorePostgres = "postgres"
	CooldownStoreMemory   = "memory"
)

// AlertsConfig controls severity alerting: the HIGH cooldown window, how a
// failing cooldown store is treated, and the bounds on each I/O step.
type AlertsConfig struct {
	Cooldown        string `toml:"cooldown"`
	CooldownStore   string `toml:"cooldown_store"`
	FailOpen        *bool  `toml:"fail_open"`
	PreviewLength   int    `toml:"preview_length"`
	ReviewLink      string `toml:"review_link"`
	Timezone        string `toml:"timezone"`
	PersistTimeout  string `toml:"persist_timeout"`
	CooldownTimeout string `toml:"cooldown_timeout"`
	NotifyTimeout   string `toml:"notify_timeout"`
}

// CooldownDuration returns Cooldown as a time.Duration.
func (c *AlertsConfig) CooldownDuration() time.Duration {
	d, _ := time.ParseDuration(c.Cooldown)
	return d
}

// FailOpenEnabled reports whether cooldown store failures permit alerts.
// Unset means true.
func (c *AlertsConfig) FailOpenEnabled() bool {
	return c.FailOpen == nil || *c.FailOpen
}

// Location returns the timezone alert timestamps are rendered in.
func (c *AlertsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PersistTimeoutDuration returns PersistTimeout as a time.Duration.
func (c *AlertsConfig) PersistTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.PersistTimeout)
	return d
}

// CooldownTimeoutDuration returns CooldownTimeout as a time.Duration.
func (c *AlertsConfig) CooldownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.CooldownTimeout)
	return d
}

// NotifyTimeoutDuration returns NotifyTimeout as a time.Duration.
func (c *AlertsConfig) NotifyTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.NotifyTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AlertsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. FailOpen applies when the
// overlay sets it explicitly.
func (c *AlertsConfig) Merge(overlay *AlertsConfig) {
	if overlay.Cooldown != "" {
		c.Cooldown = overlay.Cooldown
	}
	if overlay.CooldownStore != "" {
		c.CooldownStore = overlay.CooldownStore
	}
	if overlay.FailOpen != nil {
		v := *overlay.FailOpen
		c.FailOpen = &v
	}
	if overlay.PreviewLength != 0 {
		c.PreviewLength = overlay.PreviewLength
	}
	if overlay.ReviewLink != "" {
		c.ReviewLink = overlay.ReviewLink
	}
	if overlay.Timezone != "" {
		c.Timezone = overlay.Timezone
	}
	if overlay.PersistTimeout != "" {
		c.PersistTimeout = overlay.PersistTimeout
	}
	if overlay.CooldownTimeout != "" {
		c.CooldownTimeout = overlay.CooldownTimeout
	}
	if overlay.NotifyTimeout != "" {
		c.NotifyTimeout = overlay.NotifyTimeout
	}
}

func (c *AlertsConfig) loadDefaults() {
	if c.Cooldown == "" {
		c.Cooldown = "30m"
	}
	if c.CooldownStore == "" {
		c.CooldownStore = CooldownStorePostgres
	}
	if c.PreviewLength == 0 {
		c.PreviewLength = 500
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.PersistTimeout == "" {
		c.PersistTimeout = "10s"
	}
	if c.CooldownTimeout == "" {
		c.CooldownTimeout = "5s"
	}
	if c.NotifyTimeout == "" {
		c.NotifyTimeout = "15s"
	}
}

func (c *AlertsConfig) loadEnv() {
	if v := os.Getenv(EnvAlertsCooldown); v != "" {
		c.Cooldown = v
	}
	if v := os.Getenv(EnvAlertsCooldownStore); v != "" {
		c.CooldownStore = v
	}
	if v := os.Getenv(EnvAlertsFailOpen); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.FailOpen = &b
		}
	}
	if v := os.Getenv(EnvAlertsPreviewLength); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PreviewLength = n
		}
	}
	if v := os.Getenv(EnvAlertsReviewLink); v != "" {
		c.ReviewLink = v
	}
	if v := os.Getenv(EnvAlertsTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvAlertsPersistTimeout); v != "" {
		c.PersistTimeout = v
	}
	if v := os.Getenv(EnvAlertsCooldownTimeout); v != "" {
		c.CooldownTimeout = v
	}
	if v := os.Getenv(EnvAlertsNotifyTimeout); v != "" {
		c.NotifyTimeout = v
	}
}

func (c *AlertsConfig) validate() error {
	d, err := time.ParseDuration(c.Cooldown)
	if err != nil {
		return fmt.Errorf("invalid cooldown: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("cooldown must be positive")
	}
	switch c.CooldownStore {
	case CooldownStorePostgres, CooldownStoreMemory:
	default:
		return fmt.Errorf("invalid cooldown_store %q: want %s or %s", c.CooldownStore, CooldownStorePostgres, CooldownStoreMemory)
	}
	if c.PreviewLength < 1 {
		return fmt.Errorf("preview_length must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	for name, v := range map[string]string{
		"persist_timeout":  c.PersistTimeout,
		"cooldown_timeout": c.CooldownTimeout,
		"notify_timeout":   c.NotifyTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}
