// Package database owns the shared PostgreSQL pool used by the quote store
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/presupuestos/budget-service/config"
	"github.com/rs/zerolog"
)

// applicationName tags the service's sessions in pg_stat_activity
const applicationName = "budget-service"

const maxConnectBackoff = 10 * time.Second

// ErrNotConnected is returned when the pool has not been opened
var ErrNotConnected = errors.New("database not initialized")

var (
	pool   *pgxpool.Pool
	poolMu sync.RWMutex
)

// PoolSnapshot is a point-in-time view of pool usage
type PoolSnapshot struct {
	TotalConns    int32 `json:"totalConns"`
	IdleConns     int32 `json:"idleConns"`
	AcquiredConns int32 `json:"acquiredConns"`
	MaxConns      int32 `json:"maxConns"`
}

// Connect opens the shared pool. The first ping is retried with exponential backoff
// so the service can start while PostgreSQL is still coming up.
// Calling Connect with an open pool is a no-op.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) error {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		return nil
	}

	if cfg.URL == "" {
		return fmt.Errorf("database url is not configured")
	}

	pgCfg, err := poolConfig(cfg)
	if err != nil {
		return err
	}

	newPool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("error creating connection pool: %w", err)
	}

	attempts := max(cfg.ConnectAttempts, 1)
	for attempt := 0; ; attempt++ {
		err = newPool.Ping(ctx)
		if err == nil {
			break
		}
		if attempt+1 >= attempts {
			newPool.Close()
			return fmt.Errorf("error connecting to database after %d attempts: %w", attempts, err)
		}

		delay := backoff(attempt, cfg.ConnectBackoff)
		logger.Warn().Err(err).
			Int("attempt", attempt+1).
			Dur("retry_in", delay).
			Msg("Database not reachable, retrying")

		select {
		case <-ctx.Done():
			newPool.Close()
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	pool = newPool
	return nil
}

// poolConfig translates the service configuration into pgxpool settings
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pgCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("error parsing database config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		pgCfg.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		pgCfg.MinConns = int32(cfg.MinConnections)
	}
	if cfg.MaxConnLifetime > 0 {
		pgCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pgCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pgCfg.HealthCheckPeriod = time.Minute

	if _, ok := pgCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		pgCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return pgCfg, nil
}

// backoff doubles the base delay per attempt, capped at maxConnectBackoff
func backoff(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	delay := base << attempt
	if delay <= 0 || delay > maxConnectBackoff {
		return maxConnectBackoff
	}
	return delay
}

// Close closes the pool; Connect may be called again afterwards
func Close() {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		pool.Close()
		pool = nil
	}
}

// Pool returns the shared pool or nil before Connect
func Pool() *pgxpool.Pool {
	poolMu.RLock()
	defer poolMu.RUnlock()
	return pool
}

// Status pings the database
func Status(ctx context.Context) error {
	p := Pool()
	if p == nil {
		return ErrNotConnected
	}
	return p.Ping(ctx)
}

// Snapshot returns the current pool usage, nil before Connect
func Snapshot() *PoolSnapshot {
	p := Pool()
	if p == nil {
		return nil
	}
	stat := p.Stat()
	return &PoolSnapshot{
		TotalConns:    stat.TotalConns(),
		IdleConns:     stat.IdleConns(),
		AcquiredConns: stat.AcquiredConns(),
		MaxConns:      stat.MaxConns(),
	}
}
