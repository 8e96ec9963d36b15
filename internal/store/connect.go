package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrStartupFailure = errors.New("could not connect to database")

type RetryConfig struct {
	MaxAttempts uint
	Delay       time.Duration
}

// ConnectWithRetry calls open up to MaxAttempts times, sleeping a fixed Delay
// between failures. There is no backoff and no jitter.
func ConnectWithRetry[T any](
	ctx context.Context,
	lc *Lifecycle,
	open func(ctx context.Context) (T, error),
	cfg RetryConfig,
	logger *zap.Logger,
) (T, error) {
	lc.Transition(StateConnecting)

	attempt := func() (T, error) {
		return open(ctx)
	}

	conn, err := retry.DoWithData(attempt,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxAttempts),
		retry.Delay(cfg.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("database connection attempt failed",
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", cfg.MaxAttempts),
				zap.Error(err),
			)
			if n+1 < cfg.MaxAttempts {
				logger.Info("retrying database connection", zap.Duration("delay", cfg.Delay))
			}
		}),
	)
	if err != nil {
		lc.Transition(StateFailed)
		var zero T
		return zero, fmt.Errorf("%w after %d attempts: %w", ErrStartupFailure, cfg.MaxAttempts, err)
	}

	lc.Transition(StateReady)
	return conn, nil
}

// OpenPool returns an opener that creates a pgx pool and pings it.
func OpenPool(databaseURL string) func(ctx context.Context) (*pgxpool.Pool, error) {
	return func(ctx context.Context) (*pgxpool.Pool, error) {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	}
}
