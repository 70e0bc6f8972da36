package config

import (
	"errors"
	"time"
)

// RealtimeConfig represents the broadcast hub and client channel configuration
type RealtimeConfig struct {
	// PingInterval is how often the hub pings each authenticated connection
	PingInterval time.Duration `yaml:"ping_interval"`
	// PingTimeout is how long the hub waits for a pong before closing the
	// connection; must be strictly greater than PingInterval
	PingTimeout time.Duration `yaml:"ping_timeout"`
	// ConnectTimeout bounds the transport handshake
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	// WriteTimeout bounds a single outbound frame write; defaults to
	// ConnectTimeout when unset
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// SendBuffer is the per-connection outbound queue size; a full queue
	// drops the event for that connection only
	SendBuffer int `yaml:"send_buffer"`
	// MaxMessageSize caps inbound frames in bytes
	MaxMessageSize int64 `yaml:"max_message_size"`
	// AllowedOrigins restricts the upgrade Origin header; empty accepts all,
	// which is the intended default for this deployment
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Client side
	ReconnectAttempts int           `yaml:"reconnect_attempts"`
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"`
}

// ErrPingTimeoutTooSmall is returned when ping_timeout is not greater than ping_interval
var ErrPingTimeoutTooSmall = errors.New("realtime: ping_timeout must be strictly greater than ping_interval")

func (c *RealtimeConfig) setDefaults() {
	if c.PingInterval <= 0 {
		c.PingInterval = 25 * time.Second
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = 60 * time.Second
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = c.ConnectTimeout
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 256
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 64 * 1024
	}
	if c.ReconnectAttempts <= 0 {
		c.ReconnectAttempts = 5
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = 2 * time.Second
	}
}

func (c *RealtimeConfig) validate() error {
	if c.PingTimeout <= c.PingInterval {
		return ErrPingTimeoutTooSmall
	}
	return nil
}
