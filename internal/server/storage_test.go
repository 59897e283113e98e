package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sqlauth/internal/auth"
	"github.com/dmitrijs2005/sqlauth/internal/dbx"
	"github.com/dmitrijs2005/sqlauth/internal/server/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = filepath.Join(t.TempDir(), "auth.db")
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.MetricsAddr = ""
	return c
}

func TestOpenStorage_SQLite(t *testing.T) {
	s, err := OpenStorage(context.Background(), sqliteConfig(t), nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, dbx.DialectSQLite, s.Dialect)
	require.NotNil(t, s.Executor)

	var got []dbx.Row
	err = s.Executor.Query(context.Background(), "SELECT 'x'", nil, func(r dbx.Row) (bool, error) {
		got = append(got, r)
		return true, nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	c := sqliteConfig(t)
	c.DatabaseDriver = "oracle"

	_, err := OpenStorage(context.Background(), c, nil)
	require.Error(t, err)
}

func TestAuthConfig_DefaultsPerDialect(t *testing.T) {
	c := sqliteConfig(t)

	got, err := AuthConfig(c, dbx.DialectPostgres)
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultQueries(dbx.DialectPostgres), got.Queries)
	assert.NotNil(t, got.Strategy)
}

func TestAuthConfig_OverridesQueries(t *testing.T) {
	c := sqliteConfig(t)
	c.AuthenticateQuery = "SELECT h, s FROM accounts WHERE login = ?"
	c.PermissionsQuery = "SELECT p FROM acl WHERE r = ?"

	got, err := AuthConfig(c, dbx.DialectSQLite)
	require.NoError(t, err)
	assert.Equal(t, c.AuthenticateQuery, got.AuthenticateQuery)
	assert.Equal(t, auth.DefaultQueries(dbx.DialectSQLite).RolesQuery, got.RolesQuery)
	assert.Equal(t, c.PermissionsQuery, got.PermissionsQuery)
}

func TestAuthConfig_UnknownAlgorithm(t *testing.T) {
	c := sqliteConfig(t)
	c.HashAlgorithm = "WHIRLPOOL"

	_, err := AuthConfig(c, dbx.DialectSQLite)
	require.Error(t, err)
}
