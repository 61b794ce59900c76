package retry

import (
	"context"
	"errors"
	"time"
)

// Policy is a bounded retry loop with a pluggable backoff curve. Sleep is
// swappable so tests can run against a recorded clock instead of wall time.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
}

// LinearBackoff waits base×attempt between attempts, so delays grow strictly
// with every failed attempt.
func LinearBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(2 * time.Second),
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as not worth retrying; Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs fn up to MaxAttempts times, sleeping Backoff(attempt) between
// failed attempts. It returns nil on the first success, the wrapped error as
// soon as fn fails permanently, or the last error once attempts run out.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == p.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.Backoff(attempt)); err != nil {
			return err
		}
	}

	return lastErr
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
