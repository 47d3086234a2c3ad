package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-catalog-go/journal"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	metrics, err := RetryWithExponentialBackoff(ctx, fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, metrics.Attempts)
	assert.Equal(t, time.Duration(0), metrics.TotalDelay)
	assert.Equal(t, "none", metrics.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RetryOnConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return journal.ErrConcurrencyConflict
		}
		return nil
	}

	metrics, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, metrics.Attempts)
	assert.Greater(t, metrics.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", metrics.LastErrorType)
}

func Test_RetryWithExponentialBackoff_NonRetryableErrorFailsFast(t *testing.T) {
	ctx := context.Background()
	callCount := 0
	errBoom := errors.New("boom")

	fn := func(_ context.Context) error {
		callCount++
		return errBoom
	}

	metrics, err := RetryWithExponentialBackoff(ctx, fn)

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "other", metrics.LastErrorType)
}

func Test_RetryWithExponentialBackoff_MaxAttemptsReached(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return journal.ErrConcurrencyConflict
	}

	metrics, err := RetryWithExponentialBackoff(ctx, fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0.1),
	)

	assert.ErrorIs(t, err, journal.ErrConcurrencyConflict)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, metrics.Attempts)
	assert.Equal(t, "concurrency_conflict", metrics.LastErrorType)
}

func Test_RetryWithExponentialBackoff_CanceledContextStopsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return journal.ErrConcurrencyConflict
	}

	metrics, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Hour))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "context_canceled", metrics.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	fn := func(_ context.Context) error { return nil }

	_, err := RetryWithExponentialBackoff(ctx, fn, WithMaxAttempts(0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(-1*time.Second))
	assert.ErrorIs(t, err, ErrNegativeBaseDelay)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithJitterFactor(1.5))
	assert.ErrorIs(t, err, ErrInvalidJitterFactor)
}
