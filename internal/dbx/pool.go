package dbx

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrijs2005/sqlauth/internal/metrics"
)

// pooledConn is the part of *pgxpool.Conn the executor needs.
type pooledConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Release()
}

type connPool interface {
	Acquire(ctx context.Context) (pooledConn, error)
}

// pgxPool adapts *pgxpool.Pool to connPool.
type pgxPool struct {
	pool *pgxpool.Pool
}

func (p pgxPool) Acquire(ctx context.Context) (pooledConn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// PoolExecutor implements Executor on a pgx connection pool: every call
// acquires one pooled connection and releases it on return.
type PoolExecutor struct {
	pool    connPool
	metrics *metrics.Metrics
}

func NewPoolExecutor(pool *pgxpool.Pool, opts ...ExecutorOption) *PoolExecutor {
	return newPoolExecutor(pgxPool{pool: pool}, opts...)
}

func newPoolExecutor(pool connPool, opts ...ExecutorOption) *PoolExecutor {
	o := buildExecutorOptions(opts)
	return &PoolExecutor{pool: pool, metrics: o.metrics}
}

func (e *PoolExecutor) Query(ctx context.Context, query string, args []any, fn RowFunc) (err error) {
	start := time.Now()
	defer func() { e.metrics.ObserveQuery(outcome(err), time.Since(start)) }()

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}

		next, err := fn(Row(values))
		if err != nil {
			return err
		}
		if !next {
			return nil
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

// OpenPool builds a pgx pool from a DSN and verifies it can hand out a
// connection within pingTimeout. The caller owns the pool.
func OpenPool(ctx context.Context, dsn string, maxConns int32, pingTimeout time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	conn, err := pool.Acquire(pingCtx)
	if err != nil {
		pool.Close()
		return nil, err
	}
	conn.Release()

	return pool, nil
}
