package client

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int

	// InitialBackoff is the initial backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        2,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// newBackOff builds the exponential policy with ±20% jitter.
func (rc RetryConfig) newBackOff(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = rc.InitialBackoff
	bo.MaxInterval = rc.MaxBackoff
	bo.Multiplier = rc.BackoffMultiplier
	bo.RandomizationFactor = 0.2
	bo.MaxElapsedTime = 0

	retries := rc.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), ctx)
}

// retryWithBackoff runs fn until it succeeds, fails with a non-retriable
// error class, or the retry budget is spent.
func retryWithBackoff(ctx context.Context, rc RetryConfig, logger zerolog.Logger, fn func() error) error {
	attempt := 0
	op := func() error {
		attempt++
		err := fn()
		if err == nil {
			if attempt > 1 {
				logger.Info().Int("attempt", attempt).Msg("Request succeeded after retry")
			}
			return nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !shouldRetry(apiErr.ErrorClass) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		class := errorClassOf(err)
		ledgerRetriesTotal.WithLabelValues(string(class)).Inc()
		logger.Warn().
			Err(err).
			Str("error_class", string(class)).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Retrying request after backoff")
	}

	return backoff.RetryNotify(op, rc.newBackOff(ctx), notify)
}

func errorClassOf(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorClass
	}
	return ""
}
