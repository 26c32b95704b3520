package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "WARDEN_SERVER_HOST"
	EnvServerPort              = "WARDEN_SERVER_PORT"
	EnvServerReadTimeout       = "WARDEN_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "WARDEN_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "WARDEN_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "WARDEN_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "WARDEN_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters. Durations are Go duration
// strings.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return mustDuration(c.IdleTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	for _, d := range c.durations() {
		if *d.value == "" {
			*d.value = d.fallback
		}
		if v := os.Getenv(d.env); v != "" {
			*d.value = v
		}
	}

	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}

	if c.Port == 0 {
		c.Port = 8080
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvServerPort, err)
		}
		c.Port = port
	}

	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}

	theirs := overlay.durations()
	for i, d := range c.durations() {
		if v := *theirs[i].value; v != "" {
			*d.value = v
		}
	}
}

type durationField struct {
	name     string
	env      string
	fallback string
	value    *string
}

func (c *ServerConfig) durations() []durationField {
	return []durationField{
		{"read_timeout", EnvServerReadTimeout, "15s", &c.ReadTimeout},
		{"read_header_timeout", EnvServerReadHeaderTimeout, "5s", &c.ReadHeaderTimeout},
		{"write_timeout", EnvServerWriteTimeout, "30s", &c.WriteTimeout},
		{"idle_timeout", EnvServerIdleTimeout, "2m", &c.IdleTimeout},
		{"shutdown_timeout", EnvServerShutdownTimeout, "30s", &c.ShutdownTimeout},
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, d := range c.durations() {
		if _, err := time.ParseDuration(*d.value); err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}
	return nil
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
