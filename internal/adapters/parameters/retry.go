package parameters

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior for parameter reads
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterEnabled bool
}

// DefaultRetryConfig returns the retry policy used at cold start
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func(ctx context.Context) error

// WithRetry executes an operation with retry logic
func WithRetry(ctx context.Context, config *RetryConfig, op RetryableOperation) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt >= config.MaxAttempts || !IsRetryable(err) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(config.calculateDelay(attempt)):
		}
	}

	return lastErr
}

// calculateDelay calculates the delay before the next retry attempt
func (c *RetryConfig) calculateDelay(attempt int) time.Duration {
	delay := float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt-1))

	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	// Up to 10% jitter
	if c.JitterEnabled {
		delay += rand.Float64() * 0.1 * delay
	}

	return time.Duration(delay)
}

// RetryableStore wraps a Store with retry logic
type RetryableStore struct {
	store  Store
	config *RetryConfig
}

// NewRetryableStore creates a new RetryableStore
func NewRetryableStore(store Store, config *RetryConfig) *RetryableStore {
	if config == nil {
		config = DefaultRetryConfig()
	}

	return &RetryableStore{
		store:  store,
		config: config,
	}
}

// GetByPath implements Store.GetByPath with retry logic
func (r *RetryableStore) GetByPath(ctx context.Context, path string) (map[string]string, error) {
	var result map[string]string
	err := WithRetry(ctx, r.config, func(ctx context.Context) error {
		values, err := r.store.GetByPath(ctx, path)
		if err != nil {
			return err
		}
		result = values
		return nil
	})
	return result, err
}
