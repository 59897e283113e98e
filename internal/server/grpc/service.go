package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "sqlauth.v1.Auth"

// Method names of the Auth service.
const (
	MethodAuthenticate      = "Authenticate"
	MethodHasRole           = "HasRole"
	MethodHasPermission     = "HasPermission"
	MethodHasAllRoles       = "HasAllRoles"
	MethodHasAllPermissions = "HasAllPermissions"
)

func fullMethod(name string) string { return "/" + serviceName + "/" + name }

// AuthServer is the server side of sqlauth.v1.Auth.
//
// Authenticate takes a Struct with string fields "username" and "password"
// and returns the serialized principal. The Has* methods read the principal
// from the principal-bin request metadata.
type AuthServer interface {
	Authenticate(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	HasRole(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	HasPermission(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	HasAllRoles(context.Context, *structpb.ListValue) (*wrapperspb.BoolValue, error)
	HasAllPermissions(context.Context, *structpb.ListValue) (*wrapperspb.BoolValue, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodAuthenticate, Handler: unary(MethodAuthenticate, AuthServer.Authenticate)},
		{MethodName: MethodHasRole, Handler: unary(MethodHasRole, AuthServer.HasRole)},
		{MethodName: MethodHasPermission, Handler: unary(MethodHasPermission, AuthServer.HasPermission)},
		{MethodName: MethodHasAllRoles, Handler: unary(MethodHasAllRoles, AuthServer.HasAllRoles)},
		{MethodName: MethodHasAllPermissions, Handler: unary(MethodHasAllPermissions, AuthServer.HasAllPermissions)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sqlauth/v1/auth.proto",
}

// RegisterAuthServer registers srv on s.
func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&serviceDesc, srv)
}

// unary adapts an AuthServer method to a grpc.MethodHandler, running the
// server's interceptor chain when one is installed.
func unary[T any, Req interface {
	*T
	proto.Message
}, Resp proto.Message](method string, call func(AuthServer, context.Context, Req) (Resp, error)) grpc.MethodHandler {
	name := fullMethod(method)

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := Req(new(T))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: name}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
