package parameters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	assert.Equal(t, 3, config.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, config.InitialDelay)
	assert.Equal(t, 2.0, config.BackoffFactor)
}

func TestCalculateDelay(t *testing.T) {
	config := &RetryConfig{
		InitialDelay:  10 * time.Millisecond,
		MaxDelay:      25 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	assert.Equal(t, 10*time.Millisecond, config.calculateDelay(1))
	assert.Equal(t, 20*time.Millisecond, config.calculateDelay(2))
	assert.Equal(t, 25*time.Millisecond, config.calculateDelay(3))
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	fast := &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		BackoffFactor: 2.0,
	}

	t.Run("SuccessOnFirstAttempt", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("SuccessOnSecondAttempt", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			if attempts == 1 {
				return NewParameterError("get_by_path", "/x/", ErrThrottled, true)
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("FailAfterMaxAttempts", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			return NewParameterError("get_by_path", "/x/", ErrStoreUnavailable, true)
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.Equal(t, 3, attempts)
	})

	t.Run("NonRetryableStopsImmediately", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			return NewParameterError("get_by_path", "/x/", ErrAccessDenied, false)
		})

		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, 1, attempts)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := WithRetry(cancelled, fast, func(ctx context.Context) error {
			t.Fatal("operation should not run")
			return nil
		})

		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestRetryableStore(t *testing.T) {
	store := NewStaticStore(map[string]string{
		"/church-portal/prod/cognito/client_id": "client-1",
		"/church-portal/dev/cognito/client_id":  "client-dev",
	})
	store.FailNext(1, NewParameterError("get_by_path", "/church-portal/prod/", ErrThrottled, true))

	retrying := NewRetryableStore(store, &RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, BackoffFactor: 1})
	values, err := retrying.GetByPath(context.Background(), "/church-portal/prod")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"cognito/client_id": "client-1"}, values)
	assert.Equal(t, 2, store.Calls())
}
