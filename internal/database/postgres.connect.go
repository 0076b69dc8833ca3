package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"wiktowice_site/config"
	"wiktowice_site/internal/logger"
)

// ConnectPostgres mở pool kết nối tới Postgres (Supabase) và ping thử
func ConnectPostgres(ctx context.Context, c *config.Configuration) (*pgxpool.Pool, error) {
	if c.Postgres_ConnectionURI == "" {
		return nil, fmt.Errorf("postgres connection URI is empty")
	}

	poolCfg, err := pgxpool.ParseConfig(c.Postgres_ConnectionURI)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres connection URI: %w", err)
	}
	poolCfg.MaxConns = 5
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.GetAppLogger().Info("Successfully connected to Postgres")
	return pool, nil
}

// ClosePostgres đóng pool
func ClosePostgres(pool *pgxpool.Pool) {
	if pool == nil {
		return
	}
	pool.Close()
	logger.GetAppLogger().Info("Postgres pool closed")
}
