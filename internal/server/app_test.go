package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_MigratesAndBuildsProvider(t *testing.T) {
	c := sqliteConfig(t)
	c.RunMigrations = true

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	require.NotNil(t, app.provider)
	defer app.storage.Close()

	_, err = app.storage.DB.Exec("INSERT INTO user_roles (username, role) VALUES ('alice', 'admin')")
	require.NoError(t, err)
}

func TestNewApp_BadAlgorithmClosesStorage(t *testing.T) {
	c := sqliteConfig(t)
	c.HashAlgorithm = "WHIRLPOOL"

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	c := sqliteConfig(t)

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Error(t, app.storage.DB.Ping(), "database should be closed")
}

func TestMetricsMux_ServesRegistry(t *testing.T) {
	c := sqliteConfig(t)
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	defer app.storage.Close()

	mux := metricsMux(app.registry)
	_, pattern := mux.Handler(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "/metrics", pattern)
}
