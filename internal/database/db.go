package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gridbase/backend/internal/config"
)

// Manager owns the pool for the currently browsed database. One target is
// active at a time per server instance; the handle is explicit so tests can
// run their own fakes instead of sharing a package-level pool.
type Manager struct {
	mu     sync.RWMutex
	pool   *pgxpool.Pool
	cfg    *config.Config
	logger *zap.Logger
}

func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	return &Manager{cfg: cfg, logger: logger}
}

// Connect establishes the pool and verifies the connection with a ping.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		return nil
	}

	poolCfg, err := pgxpool.ParseConfig(m.cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolCfg.MaxConns = 25
	poolCfg.MinConns = 5
	poolCfg.MaxConnLifetime = 5 * time.Minute
	poolCfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m.pool = pool
	m.logger.Info("database connection pool established",
		zap.String("host", m.cfg.DBHost),
		zap.String("database", m.cfg.DBDatabase))
	return nil
}

// Pool returns the active pool, or an error when no connection is up. The
// grid core treats a missing connection as a precondition failure.
func (m *Manager) Pool() (*pgxpool.Pool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pool == nil {
		return nil, fmt.Errorf("no active database connection")
	}
	return m.pool, nil
}

// Drop force-disconnects the current pool. Called when execution surfaces
// an authentication failure so the next request reconnects cleanly.
func (m *Manager) Drop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
		m.logger.Warn("database connection pool dropped")
	}
}

// Close shuts the pool down at server exit.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
		m.logger.Info("database connection pool closed")
	}
}
