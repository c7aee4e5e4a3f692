package xpgx

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect открывает пул и ждёт, пока база ответит на ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	dbPool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	err = backoff.RetryNotify(
		func() error {
			return dbPool.Ping(ctx)
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 8),
			ctx,
		),
		func(err error, next time.Duration) {
			logger.Warnf(ctx, "database ping failed, retrying in %s: %s", next, err.Error())
		},
	)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return dbPool, nil
}
