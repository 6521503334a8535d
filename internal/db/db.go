package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	memoryPath = ":memory:"

	retryMaxElapsed  = 15 * time.Second
	retryMaxInterval = 2 * time.Second
)

// Open opens the SQLite database holding users and saved quotes, applies the
// connection pragmas and checks connectivity. A locked file is retried with
// exponential backoff until ctx ends or the retry window closes.
func Open(ctx context.Context, dbPath string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	if dbPath == memoryPath {
		db.SetMaxOpenConns(1)
	}

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = retryMaxElapsed
	retryPolicy.MaxInterval = retryMaxInterval

	err = backoff.RetryNotify(
		func() error {
			if _, err := db.ExecContext(ctx, `
				PRAGMA journal_mode = WAL;
				PRAGMA foreign_keys = ON;
				PRAGMA busy_timeout = 5000;
			`); err != nil {
				return fmt.Errorf("set sqlite pragmas: %w", err)
			}
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping sqlite database: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("sqlite not ready, retrying",
				zap.String("path", dbPath),
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
