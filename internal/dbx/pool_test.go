package dbx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sqlauth/internal/metrics"
)

// fakeRows serves fixed values; valuesErr fails Values on the given row.
type fakeRows struct {
	values    [][]any
	pos       int
	valuesErr error
	errAt     int
	err       error
	closed    int
}

func (r *fakeRows) Close()                                       { r.closed++ }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Scan(...any) error                            { return errors.New("not supported") }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	if r.valuesErr != nil && r.pos == r.errAt {
		return nil, r.valuesErr
	}
	return r.values[r.pos-1], nil
}

type fakeConn struct {
	rows     *fakeRows
	queryErr error
	released int
	gotSQL   string
	gotArgs  []any
}

func (c *fakeConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.gotSQL, c.gotArgs = sql, args
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return c.rows, nil
}

func (c *fakeConn) Release() { c.released++ }

type fakePool struct {
	conn       *fakeConn
	acquireErr error
	acquired   int
}

func (p *fakePool) Acquire(context.Context) (pooledConn, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return p.conn, nil
}

func rolePool(roles ...string) *fakePool {
	rows := &fakeRows{}
	for _, r := range roles {
		rows.values = append(rows.values, []any{r})
	}
	return &fakePool{conn: &fakeConn{rows: rows}}
}

func TestPoolExecutor_DeliversRowsAndReleases(t *testing.T) {
	p := rolePool("admin", "dev", "ops")
	e := newPoolExecutor(p)

	var got []string
	err := e.Query(context.Background(), "SELECT role FROM user_roles WHERE username = $1", []any{"alice"},
		func(row Row) (bool, error) {
			s, _, err := row.String(0)
			got = append(got, s)
			return true, err
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"admin", "dev", "ops"}, got)
	assert.Equal(t, "SELECT role FROM user_roles WHERE username = $1", p.conn.gotSQL)
	assert.Equal(t, []any{"alice"}, p.conn.gotArgs)
	assert.Equal(t, 1, p.conn.released)
	assert.Equal(t, 1, p.conn.rows.closed)
}

func TestPoolExecutor_ReleasesOnEveryPath(t *testing.T) {
	consumerErr := errors.New("consumer failed")

	tests := []struct {
		name       string
		pool       func() *fakePool
		fn         RowFunc
		wantErr    string
		wantClosed int
	}{
		{
			name:       "early stop",
			pool:       func() *fakePool { return rolePool("admin", "dev") },
			fn:         func(Row) (bool, error) { return false, nil },
			wantClosed: 1,
		},
		{
			name:       "consumer error",
			pool:       func() *fakePool { return rolePool("admin") },
			fn:         func(Row) (bool, error) { return false, consumerErr },
			wantErr:    "consumer failed",
			wantClosed: 1,
		},
		{
			name: "query error",
			pool: func() *fakePool {
				p := rolePool()
				p.conn.queryErr = errors.New("syntax error")
				return p
			},
			wantErr:    "query: syntax error",
			wantClosed: 0,
		},
		{
			name: "values error",
			pool: func() *fakePool {
				p := rolePool("admin", "dev")
				p.conn.rows.valuesErr, p.conn.rows.errAt = errors.New("decode"), 2
				return p
			},
			wantErr:    "scan: decode",
			wantClosed: 1,
		},
		{
			name: "rows error",
			pool: func() *fakePool {
				p := rolePool("admin")
				p.conn.rows.err = errors.New("connection reset")
				return p
			},
			wantErr:    "rows: connection reset",
			wantClosed: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.pool()
			fn := tt.fn
			if fn == nil {
				fn = func(Row) (bool, error) { return true, nil }
			}

			err := newPoolExecutor(p).Query(context.Background(), "SELECT role FROM user_roles", nil, fn)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.EqualError(t, err, tt.wantErr)
			}
			assert.Equal(t, 1, p.conn.released, "connection must go back to the pool exactly once")
			assert.Equal(t, tt.wantClosed, p.conn.rows.closed)
		})
	}
}

func TestPoolExecutor_ConsumerPanicReleases(t *testing.T) {
	p := rolePool("admin")
	e := newPoolExecutor(p)

	require.Panics(t, func() {
		_ = e.Query(context.Background(), "SELECT role FROM user_roles", nil, func(Row) (bool, error) {
			panic("boom")
		})
	})
	assert.Equal(t, 1, p.conn.released)
	assert.Equal(t, 1, p.conn.rows.closed)
}

func TestPoolExecutor_AcquireError(t *testing.T) {
	p := rolePool("admin")
	p.acquireErr = errors.New("pool exhausted")

	called := false
	err := newPoolExecutor(p).Query(context.Background(), "SELECT 1", nil, func(Row) (bool, error) {
		called = true
		return true, nil
	})
	require.ErrorContains(t, err, "acquire connection: pool exhausted")
	assert.False(t, called)
	assert.Zero(t, p.conn.released, "nothing acquired, nothing to release")
}

func TestPoolExecutor_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	ok := rolePool("admin")
	require.NoError(t, newPoolExecutor(ok, WithMetrics(m)).Query(context.Background(), "SELECT role", nil,
		func(Row) (bool, error) { return true, nil }))

	bad := rolePool()
	bad.acquireErr = errors.New("down")
	require.Error(t, newPoolExecutor(bad, WithMetrics(m)).Query(context.Background(), "SELECT role", nil,
		func(Row) (bool, error) { return true, nil }))

	n, err := testutil.GatherAndCount(reg, "sqlauth_query_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per outcome")
}

func TestOpenPool_InvalidDSN(t *testing.T) {
	_, err := OpenPool(context.Background(), "host=localhost port=notaport", 4, time.Second)
	require.Error(t, err)
}
