package session

import (
	"time"

	"github.com/danmuck/mavlink/internal/protocol/frame"
)

// BackoffConfig defines retry backoff behavior.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
	MaxAttempts  int
}

// Config defines per-link defaults.
type Config struct {
	// Name labels logs and metrics for this link.
	Name             string
	ReadBufferSize   int
	SubscriberBuffer int
	// SecretKey enables signature checks on inbound signed frames.
	SecretKey *frame.SecretKey
	// RequireSigned drops unsigned frames when a key is set.
	RequireSigned  bool
	ConnectTimeout time.Duration
	Backoff        BackoffConfig
}

func DefaultConfig() Config {
	return Config{
		Name:             "link",
		ReadBufferSize:   frame.DefaultReadBufferSize,
		SubscriberBuffer: 64,
		ConnectTimeout:   5 * time.Second,
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
			MaxAttempts:  8,
		},
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.SubscriberBuffer <= 0 {
		c.SubscriberBuffer = d.SubscriberBuffer
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.Backoff == (BackoffConfig{}) {
		c.Backoff = d.Backoff
	}
	return c
}
