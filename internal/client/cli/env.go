package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/sqlauth/internal/auth"
	"github.com/dmitrijs2005/sqlauth/internal/auth/hashing"
	"github.com/dmitrijs2005/sqlauth/internal/logging"
	"github.com/dmitrijs2005/sqlauth/internal/server"
	"github.com/dmitrijs2005/sqlauth/internal/server/config"
	"github.com/dmitrijs2005/sqlauth/internal/server/models"
	"github.com/dmitrijs2005/sqlauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sqlauth/internal/server/services"

	gs "github.com/dmitrijs2005/sqlauth/internal/server/grpc"
)

// Admin is the provisioning surface. *services.UserService implements it.
type Admin interface {
	Register(ctx context.Context, username, password string, roles ...string) (*models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	DeleteUser(ctx context.Context, username string) error
	GrantRole(ctx context.Context, username, role string) error
	RevokeRole(ctx context.Context, username, role string) error
	GrantPermission(ctx context.Context, role, perm string) error
	RevokePermission(ctx context.Context, role, perm string) error
}

// Authenticator is implemented by both *auth.Provider and the gRPC client.
type Authenticator interface {
	Authenticate(ctx context.Context, c auth.Credentials) (*auth.Principal, error)
	HasAllRoles(ctx context.Context, p *auth.Principal, roles []string) (bool, error)
	HasAllPermissions(ctx context.Context, p *auth.Principal, perms []string) (bool, error)
}

var (
	_ Admin         = (*services.UserService)(nil)
	_ Authenticator = (*auth.Provider)(nil)
	_ Authenticator = (*gs.Client)(nil)
)

// Env supplies the backends commands run against. Openers hand back a
// release func the command calls when done.
type Env struct {
	OpenAdmin func(ctx context.Context, c *config.Config) (Admin, func(), error)
	OpenAuth  func(ctx context.Context, c *config.Config, addr string) (Authenticator, func(), error)
	Migrate   func(ctx context.Context, c *config.Config) error
}

// DefaultEnv opens real databases and gRPC connections.
func DefaultEnv() *Env {
	return &Env{OpenAdmin: openAdmin, OpenAuth: openAuth, Migrate: migrate}
}

func logger(c *config.Config) logging.Logger {
	return logging.New(os.Stderr, c.LogLevel, c.LogFormat)
}

func openAdmin(ctx context.Context, c *config.Config) (Admin, func(), error) {
	strategy, err := hashing.Lookup(c.HashAlgorithm)
	if err != nil {
		return nil, nil, err
	}

	s, err := server.OpenStorage(ctx, c, nil)
	if err != nil {
		return nil, nil, err
	}
	rm, err := repomanager.NewSQLRepositoryManager(s.Dialect)
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}

	svc := services.NewUserService(s.DB, rm, strategy, logger(c))
	return svc, func() { _ = s.Close() }, nil
}

func openAuth(ctx context.Context, c *config.Config, addr string) (Authenticator, func(), error) {
	if addr != "" {
		conn, err := gs.Dial(addr)
		if err != nil {
			return nil, nil, err
		}
		return gs.NewClient(conn), func() { _ = conn.Close() }, nil
	}

	s, err := server.OpenStorage(ctx, c, nil)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := server.AuthConfig(c, s.Dialect)
	if err == nil {
		var p *auth.Provider
		if p, err = auth.New(s.Executor, cfg, auth.WithLogger(logger(c))); err == nil {
			return p, func() { _ = s.Close() }, nil
		}
	}
	_ = s.Close()
	return nil, nil, err
}

func migrate(ctx context.Context, c *config.Config) error {
	s, err := server.OpenStorage(ctx, c, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	rm, err := repomanager.NewSQLRepositoryManager(s.Dialect)
	if err != nil {
		return err
	}
	return rm.RunMigrations(ctx, s.DB)
}
