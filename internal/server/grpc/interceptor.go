package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/sqlauth/internal/auth"
	"github.com/dmitrijs2005/sqlauth/internal/common"
)

type ctxKey string

const principalKey ctxKey = "principal"

// PrincipalFromContext returns the principal attached by the interceptor.
func PrincipalFromContext(ctx context.Context) (*auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*auth.Principal)
	return p, ok && p != nil
}

// principalInterceptor decodes the principal-bin metadata for every method
// except Authenticate and stores the principal in the context.
func (s *GRPCServer) principalInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if info.FullMethod == fullMethod(MethodAuthenticate) {
		return handler(ctx, req)
	}

	var raw string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.PrincipalMetadataKey); len(values) > 0 {
			raw = values[0]
		}
	}
	if raw == "" {
		return nil, status.Error(codes.InvalidArgument, "principal: "+common.ErrMissingField.Error())
	}

	p, err := auth.DecodePrincipal([]byte(raw))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	return handler(context.WithValue(ctx, principalKey, p), req)
}

// loggingInterceptor tags each call with a request id and logs its outcome.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	l := s.logger.With("request_id", uuid.NewString(), "method", info.FullMethod)

	resp, err := handler(ctx, req)

	code := status.Code(err)
	if code == codes.Internal || code == codes.Unavailable {
		l.Error(ctx, "request failed", "code", code.String(), "duration", time.Since(start))
	} else {
		l.Debug(ctx, "request served", "code", code.String(), "duration", time.Since(start))
	}
	return resp, err
}
