package config

import (
	"context"
	"embed"
	"fmt"
	"time"

	"contacts_api/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ConnectDB establishes a connection to the PostgreSQL database, retrying while it is unavailable
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*pgxpool.Pool, error) {
	interval := cfg.ConnectInterval
	if interval <= 0 {
		interval = time.Second
	}
	backoff := retry.WithMaxRetries(cfg.ConnectRetries, retry.NewConstant(interval))

	var pool *pgxpool.Pool
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		p, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return fmt.Errorf("invalid database configuration: %w", err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			logger.Warn("failed to connect to database, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("interval", interval),
				zap.Error(err))
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", attempt, err)
	}

	logger.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))
	return pool, nil
}

// Migrate applies the embedded goose migrations
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	logger.Info("migrations applied")
	return nil
}
