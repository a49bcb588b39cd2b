// Package retry provides a generic bounded-retry-with-backoff helper for absorbing
// transient datastore contention.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrMaxAttempts indicates that all retry attempts have been exhausted.
var ErrMaxAttempts = errors.New("max retry attempts exceeded")

// Options configures WithBackoff. Logger receives the per-attempt warnings; leave it
// nil to fall back to slog.Default.
type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	Logger      *slog.Logger
}

// DefaultOptions matches the persistence retry policy: 3 attempts, exponential backoff
// starting at 2 seconds.
func DefaultOptions() Options {
	return Options{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Multiplier:  2.0,
	}
}

// WithBackoff executes operation until it succeeds, the attempt budget is exhausted, or
// the context is cancelled. The delay between attempts grows by Multiplier each round.
func WithBackoff(ctx context.Context, opts Options, operation func() error) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 2 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	delay := opts.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		if attempt == opts.MaxAttempts {
			break
		}

		logger.Warn("Operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", opts.MaxAttempts),
			slog.Duration("delay", delay),
			slog.String("error", lastErr.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * opts.Multiplier)
		}
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrMaxAttempts, opts.MaxAttempts, lastErr)
}
