package redis

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// Retrier implements usecase.Retrier with exponential backoff. Only
// optimistic-lock conflicts are retried.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewRetrier creates a new retrier with default settings. metrics may be nil.
func NewRetrier(logger zerolog.Logger, metrics *metrics.Metrics) *Retrier {
	return &Retrier{
		maxRetries:      5,
		initialInterval: 10 * time.Millisecond,
		maxInterval:     250 * time.Millisecond,
		maxElapsedTime:  2 * time.Second,
		logger:          logger,
		metrics:         metrics,
	}
}

// Retry executes an operation with exponential backoff on retryable errors.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		if r.metrics != nil {
			r.metrics.SessionConflict.Inc()
		}

		r.logger.Warn().
			Err(err).
			Int("retry", retryCount).
			Msg("session update conflict, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

// isRetryableError reports whether a WATCHed key changed under a transaction.
func isRetryableError(err error) bool {
	return errors.Is(err, redis.TxFailedErr)
}
