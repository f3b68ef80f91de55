package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jpkday/smartsave-ai-sub000/pkg/retry"
)

const (
	defaultMaxConns        int32 = 10
	defaultMinConns        int32 = 1
	defaultMaxConnLifetime       = time.Hour
	defaultMaxConnIdleTime       = 30 * time.Minute
	defaultHealthCheck           = time.Minute
	healthPingTimeout            = 2 * time.Second
)

// DB is the shared connection pool for one SmartSave database.
type DB struct {
	*pgxpool.Pool
}

// Config holds pool settings. Zero values take the package defaults.
type Config struct {
	URL             string
	MaxConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	// Connect controls how long startup waits for the server to accept
	// connections. Nil uses a short exponential backoff.
	Connect *retry.Config
}

func (c *Config) poolConfig() (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	pc.MaxConns = orDefault(c.MaxConnections, defaultMaxConns)
	pc.MinConns = min(defaultMinConns, pc.MaxConns)
	pc.MaxConnLifetime = orDefault(c.MaxConnLifetime, defaultMaxConnLifetime)
	pc.MaxConnIdleTime = orDefault(c.MaxConnIdleTime, defaultMaxConnIdleTime)
	pc.HealthCheckPeriod = defaultHealthCheck
	return pc, nil
}

func (c *Config) connectRetry() *retry.Config {
	if c.Connect != nil {
		return c.Connect
	}
	return &retry.Config{
		MaxRetries:   5,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     4 * time.Second,
		Multiplier:   2,
		JitterFactor: 0.1,
	}
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// NewConnection opens the pool and waits until the server answers a ping.
// Only transient failures are retried; bad credentials fail immediately.
func NewConnection(ctx context.Context, cfg *Config) (*DB, error) {
	pc, err := cfg.poolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	var permanent error
	err = retry.Do(ctx, cfg.connectRetry(), func() error {
		pingErr := pool.Ping(ctx)
		if pingErr != nil && !retry.IsRetryable(pingErr) {
			permanent = pingErr
			return nil
		}
		return pingErr
	})
	if err == nil {
		err = permanent
	}
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases every pooled connection.
func (db *DB) Close() {
	db.Pool.Close()
}

// Healthy reports whether the database answers within a short deadline.
func (db *DB) Healthy(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return db.Pool.Ping(ctx)
}
