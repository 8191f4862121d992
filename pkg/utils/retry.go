package utils

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryOptions contains configuration for retry behavior.
type RetryOptions struct {
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

// GetVendorRetryOptions returns retry options for translation vendor requests.
func GetVendorRetryOptions() RetryOptions {
	return RetryOptions{
		MaxElapsedTime:  30 * time.Second,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     4 * time.Second,
		MaxRetries:      3,
	}
}

// NewRetryOptions builds retry options from millisecond config values.
// Zero values fall back to the vendor defaults.
func NewRetryOptions(maxRetries uint64, delayMS, maxDelayMS int) RetryOptions {
	opts := GetVendorRetryOptions()
	if maxRetries > 0 {
		opts.MaxRetries = maxRetries
	}
	if delayMS > 0 {
		opts.InitialInterval = time.Duration(delayMS) * time.Millisecond
	}
	if maxDelayMS > 0 {
		opts.MaxInterval = time.Duration(maxDelayMS) * time.Millisecond
	}
	return opts
}

// WithRetry executes the given operation with exponential backoff using provided options.
// Errors wrapped with Permanent stop the retries immediately.
func WithRetry[T any](ctx context.Context, operation func() (T, error), opts RetryOptions) (T, error) {
	var result T

	// Configure exponential backoff
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(opts.MaxElapsedTime),
		backoff.WithInitialInterval(opts.InitialInterval),
		backoff.WithMaxInterval(opts.MaxInterval),
	), opts.MaxRetries)

	// Create backoff operation with context
	backoffOperation := func() error {
		var err error
		result, err = operation()
		return err
	}

	err := backoff.Retry(backoffOperation, backoff.WithContext(b, ctx))
	return result, err
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
