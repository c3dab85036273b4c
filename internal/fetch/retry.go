package fetch

import (
	"context"
	"log"
	"math"
	"time"
)

// Policy controls bounded exponential-backoff retry for a single source.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
}

// Delay returns the pause taken after the given failed attempt (1-indexed):
// BaseDelay * Factor^(attempt-1). No delay is taken after the final attempt.
func (p Policy) Delay(attempt int) time.Duration {
	return time.Duration(float64(p.BaseDelay) * math.Pow(p.Factor, float64(attempt-1)))
}

// Do runs op up to p.MaxAttempts times. Failures classified as non-retryable
// (4xx responses, malformed bodies, open circuit) propagate immediately;
// retryable failures sleep the policy delay and try again. Once attempts are
// exhausted the last error is wrapped in *ExhaustedError.
func Do[T any](ctx context.Context, name string, p Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		if !retryable(err) {
			log.Printf("INFO: %s attempt %d/%d failed (not retryable): %v", name, attempt, p.MaxAttempts, err)
			return zero, err
		}

		lastErr = err
		if attempt == p.MaxAttempts {
			break
		}

		delay := p.Delay(attempt)
		log.Printf("INFO: %s attempt %d/%d failed: %v; retrying in %s", name, attempt, p.MaxAttempts, err, delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, &ExhaustedError{Attempts: p.MaxAttempts, Last: lastErr}
}
