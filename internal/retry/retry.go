// Package retry runs an operation until it succeeds or a fixed attempt budget is spent.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/felixgeelhaar/frontvue/internal/log"
)

const (
	// DefaultDelay is the pause between two attempts.
	DefaultDelay = time.Second
	// DefaultAttempts is the total number of attempts, including the first call.
	DefaultAttempts = 3
)

// Options configures Do. Zero values fall back to the defaults.
type Options struct {
	Delay    time.Duration
	Attempts uint
	// Name identifies the operation in log messages.
	Name   string
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Delay <= 0 {
		o.Delay = DefaultDelay
	}
	if o.Attempts == 0 {
		o.Attempts = DefaultAttempts
	}
	if o.Name == "" {
		o.Name = "anonymous operation"
	}
	o.Logger = log.OrDefault(o.Logger)
	return o
}

// Permanent marks err as not worth retrying; Do returns it immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do calls fn until it succeeds, returns a Permanent error, or the attempt
// budget is exhausted. A warning is logged on the first retry and a debug line
// for every retry. The last error is returned when all attempts fail.
func Do[T any](ctx context.Context, opts Options, fn func() (T, error)) (T, error) {
	opts = opts.withDefaults()

	var failures uint
	notify := func(err error, next time.Duration) {
		failures++
		if failures == 1 {
			opts.Logger.Warn(fmt.Sprintf("%s failed. Retrying...", opts.Name), "error", err)
		}
		opts.Logger.Debug(fmt.Sprintf("Retrying %s (retries left: %d)", opts.Name, opts.Attempts-1-failures), "delay", next)
	}

	result, err := backoff.Retry(ctx, fn,
		backoff.WithBackOff(backoff.NewConstantBackOff(opts.Delay)),
		backoff.WithMaxTries(opts.Attempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	)
	if err != nil && failures > 0 && failures == opts.Attempts-1 {
		opts.Logger.Warn(fmt.Sprintf("%s failed %d times. Aborting...", opts.Name, opts.Attempts))
	}
	return result, err
}
