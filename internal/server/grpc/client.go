package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/sqlauth/internal/auth"
	"github.com/dmitrijs2005/sqlauth/internal/common"
)

// Client calls a remote sqlauth.v1.Auth service. Errors match the common
// sentinels with errors.Is.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial opens a plaintext connection to addr.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	return grpc.NewClient(addr, opts...)
}

func (c *Client) Authenticate(ctx context.Context, creds auth.Credentials) (*auth.Principal, error) {
	req, err := structpb.NewStruct(map[string]any{
		"username": creds.Username,
		"password": creds.Password,
	})
	if err != nil {
		return nil, err
	}

	out := &wrapperspb.BytesValue{}
	if err := c.cc.Invoke(ctx, fullMethod(MethodAuthenticate), req, out); err != nil {
		return nil, fromStatus(err)
	}
	return auth.DecodePrincipal(out.GetValue())
}

func (c *Client) HasRole(ctx context.Context, p *auth.Principal, role string) (bool, error) {
	return c.invokeBool(ctx, p, MethodHasRole, wrapperspb.String(role))
}

func (c *Client) HasPermission(ctx context.Context, p *auth.Principal, perm string) (bool, error) {
	return c.invokeBool(ctx, p, MethodHasPermission, wrapperspb.String(perm))
}

func (c *Client) HasAllRoles(ctx context.Context, p *auth.Principal, roles []string) (bool, error) {
	return c.invokeBool(ctx, p, MethodHasAllRoles, toList(roles))
}

func (c *Client) HasAllPermissions(ctx context.Context, p *auth.Principal, perms []string) (bool, error) {
	return c.invokeBool(ctx, p, MethodHasAllPermissions, toList(perms))
}

func (c *Client) invokeBool(ctx context.Context, p *auth.Principal, method string, req any) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("principal: %w", common.ErrMissingField)
	}
	b, err := p.MarshalBinary()
	if err != nil {
		return false, err
	}
	ctx = metadata.AppendToOutgoingContext(ctx, common.PrincipalMetadataKey, string(b))

	out := &wrapperspb.BoolValue{}
	if err := c.cc.Invoke(ctx, fullMethod(method), req, out); err != nil {
		return false, fromStatus(err)
	}
	return out.GetValue(), nil
}

func toList(names []string) *structpb.ListValue {
	values := make([]*structpb.Value, len(names))
	for i, n := range names {
		values[i] = structpb.NewStringValue(n)
	}
	return &structpb.ListValue{Values: values}
}
