// Package retry wraps network calls in a bounded exponential backoff. It is
// the only waiting the system does.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/curbsignal/curbsignal/core/logger"
)

// Config bounds the retry loop.
type Config struct {
	MaxAttempts  int           `json:"max_attempts"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
}

// SetDefaults applies the standard policy: three attempts, one second
// initial delay, doubled per attempt, capped at ten seconds.
func (c *Config) SetDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 10 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2
	}
}

// Do runs op until it succeeds, the attempt budget is exhausted, or the
// context is cancelled. The last error is returned.
func Do(ctx context.Context, cfg Config, log logger.Logger, name string, op func() error) error {
	cfg.SetDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialDelay
	b.MaxInterval = cfg.MaxDelay
	b.Multiplier = cfg.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	policy := backoff.WithMaxRetries(backoff.WithContext(b, ctx), uint64(cfg.MaxAttempts-1))

	attempt := 0
	return backoff.RetryNotify(op, policy, func(err error, next time.Duration) {
		attempt++
		log.Warnf("%s: attempt %d/%d failed, retrying in %s: %v", name, attempt, cfg.MaxAttempts, next, err)
	})
}
