package shell

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/AntonStoeckl/library-catalog-go/journal"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3

	errorTypeNone                    = "none"
	errorTypeConcurrencyConflict     = "concurrency_conflict"
	errorTypeContextCanceled         = "context_canceled"
	errorTypeContextDeadlineExceeded = "context_deadline_exceeded"
	errorTypeOther                   = "other"
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics describes how a retried call went.
type RetryMetrics struct {
	Attempts      int
	TotalDelay    time.Duration
	LastErrorType string
}

type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
}

// RetryWithExponentialBackoff runs fn until it succeeds, fails with a non-retryable error,
// or maxAttempts is reached.
//
// Default schedule: 0 ms, 10 ms, 20 ms, 40 ms, 80 ms, 160 ms (plus up to 30% jitter).
//
// Only journal.ErrConcurrencyConflict is retried, all other errors fail fast.
func RetryWithExponentialBackoff(
	ctx context.Context,
	fn RetryableFunc,
	options ...RetryOption,
) (RetryMetrics, error) {

	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return RetryMetrics{}, err
		}
	}

	metrics := RetryMetrics{LastErrorType: errorTypeNone}
	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)

			select {
			case <-time.After(backoffDelay):
				metrics.TotalDelay += backoffDelay
			case <-ctx.Done():
				metrics.LastErrorType = errorTypeOf(ctx.Err())

				return metrics, ctx.Err()
			}
		}

		metrics.Attempts++
		lastErr = fn(ctx)
		metrics.LastErrorType = errorTypeOf(lastErr)

		if lastErr == nil {
			return metrics, nil
		}

		if !isRetryableError(lastErr) {
			return metrics, lastErr
		}
	}

	return metrics, lastErr
}

// isRetryableError reports whether err should be retried.
// Deadlines and database errors fail fast.
func isRetryableError(err error) bool {
	return errors.Is(err, journal.ErrConcurrencyConflict)
}

func errorTypeOf(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case errors.Is(err, journal.ErrConcurrencyConflict):
		return errorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return errorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeContextDeadlineExceeded
	default:
		return errorTypeOther
	}
}

// RetryOption configures retry behavior.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of attempts, including the first one.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, ...
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter added as a fraction of each backoff delay, from 0.0 to 1.0.
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}
