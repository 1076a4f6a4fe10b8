// Package retry wraps single external calls with bounded attempts and
// backoff. The delay between attempts is exponential (2^attempt seconds)
// unless the failing call classified itself with a fixed delay.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultAttempts is the retry budget used when a Caller is built with
// a non-positive attempt count.
const DefaultAttempts = 3

// ExhaustedError is returned once the attempt budget is spent. It carries
// the last underlying cause.
type ExhaustedError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

type fixedDelayError struct {
	delay time.Duration
	err   error
}

func (e *fixedDelayError) Error() string { return e.err.Error() }

func (e *fixedDelayError) Unwrap() error { return e.err }

// Fixed marks err so the caller sleeps a fixed delay before the next
// attempt instead of the exponential default. Used for timeouts, network
// failures, plain non-2xx statuses and empty model replies.
func Fixed(delay time.Duration, err error) error {
	return &fixedDelayError{delay: delay, err: err}
}

// FixedDelay reports the fixed delay carried by err, if any.
func FixedDelay(err error) (time.Duration, bool) {
	var fixed *fixedDelayError
	if errors.As(err, &fixed) {
		return fixed.delay, true
	}
	return 0, false
}

// Caller retries one externally-visible operation. The zero value is
// usable: three attempts, real sleeping, no logging.
type Caller struct {
	Attempts int
	Sleep    func(time.Duration)
	Logger   *slog.Logger
}

// Do runs fn until it succeeds or the attempt budget is exhausted.
// A successful attempt short-circuits all remaining retries. The sleep
// happens between attempts, never before the first or after the last.
func (c *Caller) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	attempts := c.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	sleep := c.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var last error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		last = err

		if c.Logger != nil {
			c.Logger.Warn("attempt failed", "op", op, "attempt", attempt+1, "error", err)
		}
		if attempt < attempts-1 {
			sleep(delayFor(attempt, err))
		}
	}

	return &ExhaustedError{Op: op, Attempts: attempts, Err: last}
}

func delayFor(attempt int, err error) time.Duration {
	if delay, ok := FixedDelay(err); ok {
		return delay
	}
	return time.Duration(1<<attempt) * time.Second
}
