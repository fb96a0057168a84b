package connection

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Reconnect backoff defaults.
const (
	// InitialBackoff is the delay before the first reconnect.
	InitialBackoff = 100 * time.Millisecond

	// MaxBackoff caps the delay between reconnects.
	MaxBackoff = 5 * time.Second

	// BackoffMultiplier is the growth factor per failed attempt.
	BackoffMultiplier = 2.0

	// JitterFactor spreads each delay over [d*(1-f), d*(1+f)].
	JitterFactor = 0.25
)

// BackoffConfig customizes a Backoff. Zero fields take the defaults above,
// except Jitter and MaxElapsed where zero means none and unbounded.
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64

	// MaxElapsed stops retrying (backoff.Stop) once this much time has
	// passed since the last Reset.
	MaxElapsed time.Duration
}

// Backoff spaces reconnect attempts inside one operation: exponential
// growth capped at Max, with optional jitter. It implements backoff.BackOff
// and is passed to a Connection with WithBackoff. Like the Connection it
// serves, it is not safe for concurrent use.
type Backoff struct {
	exp      *backoff.ExponentialBackOff
	config   BackoffConfig
	attempts int
}

// NewBackoff returns a Backoff with the default schedule and jitter.
func NewBackoff() *Backoff {
	return NewBackoffWithConfig(BackoffConfig{Jitter: JitterFactor})
}

// NewBackoffWithConfig returns a Backoff for cfg.
func NewBackoffWithConfig(cfg BackoffConfig) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = InitialBackoff
	}
	if cfg.Max <= 0 {
		cfg.Max = MaxBackoff
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = BackoffMultiplier
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	if cfg.MaxElapsed < 0 {
		cfg.MaxElapsed = 0
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.Initial
	exp.MaxInterval = cfg.Max
	exp.Multiplier = cfg.Multiplier
	exp.RandomizationFactor = cfg.Jitter
	exp.MaxElapsedTime = cfg.MaxElapsed
	exp.Reset()

	return &Backoff{exp: exp, config: cfg}
}

// NextBackOff returns the delay before the next attempt, or backoff.Stop
// once MaxElapsed has passed.
func (b *Backoff) NextBackOff() time.Duration {
	d := b.exp.NextBackOff()
	if d != backoff.Stop {
		b.attempts++
	}
	return d
}

// Reset restarts the schedule. Connection calls it at the start of every
// operation.
func (b *Backoff) Reset() {
	b.exp.Reset()
	b.attempts = 0
}

// Attempts returns the number of delays handed out since the last Reset.
func (b *Backoff) Attempts() int {
	return b.attempts
}

// Config returns the effective settings.
func (b *Backoff) Config() BackoffConfig {
	return b.config
}

// Schedule returns the first n base delays (before jitter) of cfg.
func (cfg BackoffConfig) Schedule(n int) []time.Duration {
	defaults := NewBackoffWithConfig(cfg).config

	out := make([]time.Duration, 0, n)
	d := defaults.Initial
	for i := 0; i < n; i++ {
		out = append(out, d)
		next := time.Duration(float64(d) * defaults.Multiplier)
		if next > defaults.Max {
			next = defaults.Max
		}
		d = next
	}
	return out
}

var _ backoff.BackOff = (*Backoff)(nil)
