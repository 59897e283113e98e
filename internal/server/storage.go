package server

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/sqlauth/internal/auth"
	"github.com/dmitrijs2005/sqlauth/internal/auth/hashing"
	"github.com/dmitrijs2005/sqlauth/internal/dbx"
	"github.com/dmitrijs2005/sqlauth/internal/metrics"
	"github.com/dmitrijs2005/sqlauth/internal/server/config"
)

const pingTimeout = 5 * time.Second

// Storage is an open database together with the executor the
// authentication core queries through.
type Storage struct {
	DB       *sql.DB
	Executor dbx.Executor
	Dialect  dbx.Dialect

	pool *pgxpool.Pool
}

// OpenStorage connects to the configured database. For pgxpool the
// executor talks to the pool directly and DB is a database/sql view of the
// same pool, used for migrations and provisioning.
func OpenStorage(ctx context.Context, c *config.Config, m *metrics.Metrics) (*Storage, error) {
	dialect, err := c.Dialect()
	if err != nil {
		return nil, err
	}

	s := &Storage{Dialect: dialect}

	switch strings.ToLower(c.DatabaseDriver) {
	case "pgxpool":
		pool, err := dbx.OpenPool(ctx, c.DatabaseDSN, int32(c.MaxConns), pingTimeout)
		if err != nil {
			return nil, fmt.Errorf("open pool: %w", err)
		}
		s.pool = pool
		s.DB = stdlib.OpenDBFromPool(pool)
		s.Executor = dbx.NewPoolExecutor(pool, dbx.WithMetrics(m))
		return s, nil
	case "sqlite", "sqlite3":
		s.DB, err = sql.Open("sqlite", c.DatabaseDSN)
	default:
		s.DB, err = sql.Open("pgx", c.DatabaseDSN)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		_ = s.DB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s.Executor = dbx.NewSQLExecutor(s.DB, dbx.WithMetrics(m))
	return s, nil
}

func (s *Storage) Close() error {
	err := s.DB.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// AuthConfig resolves the provider configuration: explicit queries win,
// empty ones fall back to the dialect defaults.
func AuthConfig(c *config.Config, dialect dbx.Dialect) (auth.Config, error) {
	strategy, err := hashing.Lookup(c.HashAlgorithm)
	if err != nil {
		return auth.Config{}, err
	}

	q := auth.DefaultQueries(dialect)
	if c.AuthenticateQuery != "" {
		q.AuthenticateQuery = c.AuthenticateQuery
	}
	if c.RolesQuery != "" {
		q.RolesQuery = c.RolesQuery
	}
	if c.PermissionsQuery != "" {
		q.PermissionsQuery = c.PermissionsQuery
	}
	return auth.Config{Queries: q, Strategy: strategy}, nil
}
