// Package grants stores role assignments and role permissions.
package grants

import "context"

type Repository interface {
	GrantRole(ctx context.Context, username, role string) error
	RevokeRole(ctx context.Context, username, role string) error
	GrantPermission(ctx context.Context, role, perm string) error
	RevokePermission(ctx context.Context, role, perm string) error
	Roles(ctx context.Context, username string) ([]string, error)
	DeleteUserRoles(ctx context.Context, username string) error
}
