package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/repair-tracker/internal/config"
)

// ErrNoDSN indicates the service was started without a database DSN.
var ErrNoDSN = errors.New("POSTGRES_DSN not configured")

// Postgres lazily manages a shared pgx connection pool. The pool is built on
// first use; concurrent callers collapse to a single connection attempt, and
// a failed attempt is retried on the next call rather than killing the
// process.
type Postgres struct {
	cfg    config.PostgresConfig
	logger *zap.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewPostgres prepares the lazy pool holder without connecting.
func NewPostgres(cfg config.PostgresConfig, logger *zap.Logger) *Postgres {
	return &Postgres{cfg: cfg, logger: logger}
}

// Pool returns the shared connection pool, establishing it if needed.
func (p *Postgres) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		return p.pool, nil
	}
	if p.cfg.DSN == "" {
		return nil, ErrNoDSN
	}

	poolCfg, err := pgxpool.ParseConfig(p.cfg.DSN)
	if err != nil {
		return nil, err
	}
	if p.cfg.MaxConns > 0 {
		poolCfg.MaxConns = p.cfg.MaxConns
	}
	if p.cfg.MinConns > 0 {
		poolCfg.MinConns = p.cfg.MinConns
	}
	if p.cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(p.cfg.ConnMaxIdleSec) * time.Second
	}
	if p.cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(p.cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	p.logger.Info("connected to postgres")
	p.pool = pool
	return p.pool, nil
}

// Ping verifies database connectivity, connecting if needed.
func (p *Postgres) Ping(ctx context.Context) error {
	pool, err := p.Pool(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

// Close releases pool resources.
func (p *Postgres) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
}
