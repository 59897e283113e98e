package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/sqlauth/internal/auth"
)

func (s *GRPCServer) Authenticate(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	username, err := stringField(req, "username")
	if err != nil {
		return nil, err
	}
	password, err := stringField(req, "password")
	if err != nil {
		return nil, err
	}

	p, err := s.provider.Authenticate(ctx, auth.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, toStatus(err)
	}

	b, err := p.MarshalBinary()
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Authenticated", "username", p.Username())
	return wrapperspb.Bytes(b), nil
}

func (s *GRPCServer) HasRole(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return s.check(ctx, func(p *auth.Principal) (bool, error) {
		return s.provider.HasRole(ctx, p, req.GetValue())
	})
}

func (s *GRPCServer) HasPermission(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return s.check(ctx, func(p *auth.Principal) (bool, error) {
		return s.provider.HasPermission(ctx, p, req.GetValue())
	})
}

func (s *GRPCServer) HasAllRoles(ctx context.Context, req *structpb.ListValue) (*wrapperspb.BoolValue, error) {
	roles, err := stringList(req)
	if err != nil {
		return nil, err
	}
	return s.check(ctx, func(p *auth.Principal) (bool, error) {
		return s.provider.HasAllRoles(ctx, p, roles)
	})
}

func (s *GRPCServer) HasAllPermissions(ctx context.Context, req *structpb.ListValue) (*wrapperspb.BoolValue, error) {
	perms, err := stringList(req)
	if err != nil {
		return nil, err
	}
	return s.check(ctx, func(p *auth.Principal) (bool, error) {
		return s.provider.HasAllPermissions(ctx, p, perms)
	})
}

func (s *GRPCServer) check(ctx context.Context, fn func(*auth.Principal) (bool, error)) (*wrapperspb.BoolValue, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "principal: missing field")
	}

	granted, err := fn(p)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(granted), nil
}

// stringField reads a string field from req. An absent field reads as "".
func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return "", nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Error(codes.InvalidArgument, fmt.Sprintf("%s: must be a string", name))
	}
	return sv.StringValue, nil
}

func stringList(req *structpb.ListValue) ([]string, error) {
	values := req.GetValues()
	out := make([]string, 0, len(values))
	for i, v := range values {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("item %d: must be a string", i))
		}
		out = append(out, sv.StringValue)
	}
	return out, nil
}
