package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sqlauth/internal/metrics"
)

// SQLExecutor implements Executor on top of a database/sql pool. Each call
// takes a dedicated *sql.Conn from the pool and hands it back when done.
type SQLExecutor struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

func NewSQLExecutor(db *sql.DB, opts ...ExecutorOption) *SQLExecutor {
	o := buildExecutorOptions(opts)
	return &SQLExecutor{db: db, metrics: o.metrics}
}

func (e *SQLExecutor) Query(ctx context.Context, query string, args []any, fn RowFunc) (err error) {
	start := time.Now()
	defer func() { e.metrics.ObserveQuery(outcome(err), time.Since(start)) }()

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("columns: %w", err)
	}

	for rows.Next() {
		row := make(Row, len(cols))
		dest := make([]any, len(cols))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan: %w", err)
		}

		next, err := fn(row)
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
