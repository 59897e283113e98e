// Package server initializes and runs the authentication server: it opens
// the database, optionally applies migrations, builds the provider and
// serves it over gRPC alongside a Prometheus endpoint until a shutdown
// signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/sqlauth/internal/auth"
	"github.com/dmitrijs2005/sqlauth/internal/logging"
	"github.com/dmitrijs2005/sqlauth/internal/metrics"
	"github.com/dmitrijs2005/sqlauth/internal/server/config"
	"github.com/dmitrijs2005/sqlauth/internal/server/repositories/repomanager"

	gs "github.com/dmitrijs2005/sqlauth/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	registry *prometheus.Registry
	storage  *Storage
	provider *auth.Provider
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	storage, err := OpenStorage(ctx, c, m)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if c.RunMigrations {
		rm, err := repomanager.NewSQLRepositoryManager(storage.Dialect)
		if err == nil {
			err = rm.RunMigrations(ctx, storage.DB)
		}
		if err != nil {
			_ = storage.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		logger.Info(ctx, "Migrations applied")
	}

	authCfg, err := AuthConfig(c, storage.Dialect)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	provider, err := auth.New(storage.Executor, authCfg, auth.WithLogger(logger), auth.WithMetrics(m))
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, registry: registry, storage: storage, provider: provider}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.provider)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{Addr: app.config.MetricsAddr, Handler: metricsMux(app.registry)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func metricsMux(registry *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	return mux
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.storage.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
