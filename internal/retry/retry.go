// apps/go-server/internal/retry/retry.go
//
// Small retry helper for calls against the upstream stats API.
// Responsibilities:
//   - Run an operation up to a configured number of attempts.
//   - Sleep a policy-defined backoff between attempts, honouring
//     context cancellation during the wait.
//   - Stop early when the error is classified as non-retryable.
//
// Policies are plain values; handlers hold one per route so the start
// and guess paths can retry with different budgets.

package retry

import (
	"context"
	"time"
)

// Policy describes how an operation is retried.
// The zero value runs the operation exactly once with no waiting.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// Backoff maps a 1-based failed attempt number to the wait before
	// the next try. Nil means no wait.
	Backoff func(attempt int) time.Duration

	// Retryable reports whether an error is worth another attempt.
	// Nil means every error is retryable.
	Retryable func(err error) bool
}

// Linear returns a backoff that grows by step per attempt:
// step after the first failure, 2*step after the second, and so on.
func Linear(step time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			return 0
		}
		return time.Duration(attempt) * step
	}
}

// Do runs op under the policy and returns the first success or the last
// error. The backoff wait aborts with ctx.Err() if the context ends first.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		if wait := p.backoff(attempt); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return err
}

func (p Policy) backoff(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff(attempt)
}
