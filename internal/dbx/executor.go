package dbx

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sqlauth/internal/metrics"
)

// Row is one fetched row: column values in select order, as produced by
// the driver (string, []byte, int64, time.Time, nil for NULL, ...).
type Row []any

// Len returns the number of columns in the row.
func (r Row) Len() int { return len(r) }

// String returns column i as a string. ok is false when the value is SQL
// NULL. Text and byte columns are accepted; any other type is an error.
func (r Row) String(i int) (s string, ok bool, err error) {
	if i < 0 || i >= len(r) {
		return "", false, fmt.Errorf("column %d out of range (row has %d)", i, len(r))
	}
	switch v := r[i].(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case []byte:
		return string(v), true, nil
	default:
		return "", false, fmt.Errorf("column %d: unsupported type %T", i, v)
	}
}

// RowFunc consumes one row. Returning next=false stops the scan early;
// returning an error aborts it and the error is returned from Query as is.
type RowFunc func(row Row) (next bool, err error)

// Executor runs one parameterized query and feeds the resulting rows to fn
// in delivery order.
//
// Implementations acquire whatever connection-like resource they need for
// the call and release it exactly once before Query returns, on every
// path: success, early stop, consumer error and query error alike. They
// never retry.
type Executor interface {
	Query(ctx context.Context, query string, args []any, fn RowFunc) error
}

// ExecutorOption configures an executor.
type ExecutorOption func(*executorOptions)

type executorOptions struct {
	metrics *metrics.Metrics
}

// WithMetrics records query latency and outcome on m.
func WithMetrics(m *metrics.Metrics) ExecutorOption {
	return func(o *executorOptions) { o.metrics = m }
}

func buildExecutorOptions(opts []ExecutorOption) executorOptions {
	var o executorOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func outcome(err error) string {
	if err != nil {
		return metrics.OutcomeError
	}
	return metrics.OutcomeOK
}
