package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

var ErrExhausted = errors.New("retry attempts exhausted")

// Config controls the bounded exponential backoff.
type Config struct {
	// MaxAttempts counts the first try; values below 1 are treated as 1.
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// JitterFactor in [0,1]; 0.2 spreads each wait by up to ±20%.
	JitterFactor float64
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:     4,
		InitialInterval: 25 * time.Millisecond,
		MaxInterval:     400 * time.Millisecond,
		Multiplier:      2.0,
		JitterFactor:    0.2,
	}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent stops the retry loop; Do returns err unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// ExhaustedError is returned once every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrExhausted, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() []error { return []error{ErrExhausted, e.Last} }

type Operation func(ctx context.Context, attempt int) error

// OnRetry is invoked before sleeping ahead of attempt+1.
type OnRetry func(attempt int, err error, wait time.Duration)

type Retrier struct {
	cfg     Config
	onRetry OnRetry
}

func New(cfg Config) *Retrier {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = DefaultConfig().InitialInterval
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		cfg.MaxInterval = cfg.InitialInterval
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	cfg.JitterFactor = math.Max(0, math.Min(1, cfg.JitterFactor))
	return &Retrier{cfg: cfg}
}

func (r *Retrier) WithOnRetry(fn OnRetry) *Retrier {
	cp := *r
	cp.onRetry = fn
	return &cp
}

func (r *Retrier) Config() Config { return r.cfg }

// Do runs op until it succeeds, returns a Permanent error, the context ends,
// or MaxAttempts is reached.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var last error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if last != nil {
				return fmt.Errorf("%w (last error: %v)", err, last)
			}
			return err
		}

		err := op(ctx, attempt)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		last = err

		if attempt == r.cfg.MaxAttempts {
			break
		}

		wait := r.Backoff(attempt)
		if r.onRetry != nil {
			r.onRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), last)
		case <-timer.C:
		}
	}
	return &ExhaustedError{Attempts: r.cfg.MaxAttempts, Last: last}
}

// Backoff is the wait after the given (1-based) failed attempt.
func (r *Retrier) Backoff(attempt int) time.Duration {
	interval := float64(r.cfg.InitialInterval) * math.Pow(r.cfg.Multiplier, float64(attempt-1))
	if r.cfg.JitterFactor > 0 {
		interval += (rand.Float64()*2 - 1) * interval * r.cfg.JitterFactor
	}
	if interval > float64(r.cfg.MaxInterval) {
		interval = float64(r.cfg.MaxInterval)
	}
	if interval <= 0 {
		interval = float64(r.cfg.InitialInterval)
	}
	return time.Duration(interval)
}
