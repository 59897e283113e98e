// Package grpc exposes the authentication provider over gRPC as the
// sqlauth.v1.Auth service, and provides a matching client.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/sqlauth/internal/auth"
	"github.com/dmitrijs2005/sqlauth/internal/logging"
)

// Provider is the part of auth.Provider the service needs.
type Provider interface {
	Authenticate(ctx context.Context, c auth.Credentials) (*auth.Principal, error)
	HasRole(ctx context.Context, p *auth.Principal, role string) (bool, error)
	HasPermission(ctx context.Context, p *auth.Principal, perm string) (bool, error)
	HasAllRoles(ctx context.Context, p *auth.Principal, roles []string) (bool, error)
	HasAllPermissions(ctx context.Context, p *auth.Principal, perms []string) (bool, error)
}

type GRPCServer struct {
	address  string
	provider Provider
	logger   logging.Logger
}

var _ AuthServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, p Provider) *GRPCServer {
	if l == nil {
		l = logging.Nop()
	}
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		provider: p,
	}
}

// newServer builds a grpc.Server with the interceptor chain and the Auth
// service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.principalInterceptor))
	RegisterAuthServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done,
// then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
