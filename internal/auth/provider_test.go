package auth

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/sqlauth/internal/auth/hashing"
	"github.com/dmitrijs2005/sqlauth/internal/common"
	"github.com/dmitrijs2005/sqlauth/internal/dbx"
)

var dbSeq atomic.Int64

func setupStore(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := hashing.NewDefault()
	stmts := []string{
		`CREATE TABLE users (username TEXT NOT NULL, password TEXT NOT NULL, password_salt TEXT)`,
		`CREATE TABLE user_roles (username TEXT NOT NULL, role TEXT NOT NULL)`,
		`CREATE TABLE roles_perms (role TEXT NOT NULL, perm TEXT NOT NULL)`,
		fmt.Sprintf(`INSERT INTO users VALUES ('alice', '%s', 'S1')`, s.ComputeHash("wonderland", "S1")),
		fmt.Sprintf(`INSERT INTO users VALUES ('bob', '%s', NULL)`, s.ComputeHash("builder", "")),
		`INSERT INTO users VALUES ('twin', 'X', 'S'), ('twin', 'Y', 'S')`,
		`INSERT INTO user_roles VALUES ('alice', 'admin'), ('alice', 'editor'), ('bob', 'viewer')`,
		`INSERT INTO roles_perms VALUES ('admin', 'users:write'), ('editor', 'posts:write'), ('viewer', 'posts:read')`,
	}
	for _, q := range stmts {
		_, err := db.Exec(q)
		require.NoError(t, err, q)
	}
	return db
}

func TestProvider_EndToEnd(t *testing.T) {
	db := setupStore(t)
	p, err := New(dbx.NewSQLExecutor(db), DefaultConfig(dbx.DialectSQLite))
	require.NoError(t, err)
	ctx := context.Background()

	a, err := p.Authenticate(ctx, Credentials{Username: "alice", Password: "wonderland"})
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Username())

	b, err := p.Authenticate(ctx, Credentials{Username: "bob", Password: "builder"})
	require.NoError(t, err)

	_, err = p.Authenticate(ctx, Credentials{Username: "alice", Password: "nope"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = p.Authenticate(ctx, Credentials{Username: "carol", Password: "nope"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = p.Authenticate(ctx, Credentials{Username: "twin", Password: "x"})
	assert.ErrorIs(t, err, common.ErrAmbiguousIdentity)

	ok, err := p.HasRole(ctx, a, "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.HasRole(ctx, b, "admin")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.HasAllRoles(ctx, a, []string{"admin", "editor"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.HasPermission(ctx, a, "posts:write")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.HasAllPermissions(ctx, b, []string{"posts:read", "posts:write"})
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 0, db.Stats().InUse)
}

func TestProvider_FromBuffer(t *testing.T) {
	p, err := New(&stubExecutor{}, DefaultConfig(dbx.DialectSQLite))
	require.NoError(t, err)

	buf, err := (&Principal{username: "alice"}).MarshalBinary()
	require.NoError(t, err)

	got, err := p.FromBuffer(buf)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username())

	_, err = p.FromBuffer(buf[:3])
	assert.ErrorIs(t, err, common.ErrMalformedPrincipal)
}

func TestNew_InvalidConfig(t *testing.T) {
	exec := &stubExecutor{}
	valid := DefaultConfig(dbx.DialectSQLite)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty authenticate query", func(c *Config) { c.AuthenticateQuery = "" }},
		{"empty roles query", func(c *Config) { c.RolesQuery = " " }},
		{"empty permissions query", func(c *Config) { c.PermissionsQuery = "" }},
		{"nil strategy", func(c *Config) { c.Strategy = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := New(exec, cfg)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}

	_, err := New(nil, valid)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestDefaultQueries_Postgres(t *testing.T) {
	q := DefaultQueries(dbx.DialectPostgres)

	assert.Equal(t, "SELECT password, password_salt FROM users WHERE username = $1", q.AuthenticateQuery)
	assert.Equal(t, "SELECT role FROM user_roles WHERE username = $1", q.RolesQuery)
	assert.Contains(t, q.PermissionsQuery, "ur.username = $1")
}
