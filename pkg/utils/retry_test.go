package utils_test

import (
	"errors"
	"testing"
	"time"

	"github.com/robalyx/dolmetscher/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errTemporary = errors.New("temporary error")
	errFatal     = errors.New("fatal error")
)

func TestWithRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		operation     func() error
		expectedCalls int
		expectedErr   error
	}{
		{
			name: "succeeds first try",
			operation: func() error {
				return nil
			},
			expectedCalls: 1,
		},
		{
			name: "succeeds after retries",
			operation: func() func() error {
				count := 0
				return func() error {
					count++
					if count < 3 {
						return errTemporary
					}
					return nil
				}
			}(),
			expectedCalls: 3,
		},
		{
			name: "fails all retries",
			operation: func() error {
				return errTemporary
			},
			expectedCalls: 4, // Initial + 3 retries
			expectedErr:   errTemporary,
		},
		{
			name: "permanent error stops immediately",
			operation: func() error {
				return utils.Permanent(errFatal)
			},
			expectedCalls: 1,
			expectedErr:   errFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			opts := utils.RetryOptions{
				MaxElapsedTime:  time.Second,
				InitialInterval: 5 * time.Millisecond,
				MaxInterval:     10 * time.Millisecond,
				MaxRetries:      3,
			}

			result, err := utils.WithRetry(t.Context(), func() (int, error) {
				calls++
				return calls, tt.operation()
			}, opts)

			assert.Equal(t, tt.expectedCalls, calls)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedCalls, result)
		})
	}
}

func TestNewRetryOptions(t *testing.T) {
	t.Parallel()

	opts := utils.NewRetryOptions(5, 100, 0)
	assert.Equal(t, uint64(5), opts.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, opts.InitialInterval)
	assert.Equal(t, utils.GetVendorRetryOptions().MaxInterval, opts.MaxInterval)
}
