package grants

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sqlauth/internal/common"
	"github.com/dmitrijs2005/sqlauth/internal/dbx"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// GrantRole is idempotent.
func (r *SQLRepository) GrantRole(ctx context.Context, username, role string) error {
	query := r.dialect.Rebind(
		`INSERT INTO user_roles (username, role) VALUES (?, ?)
		 ON CONFLICT DO NOTHING`)

	if _, err := r.db.ExecContext(ctx, query, username, role); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) RevokeRole(ctx context.Context, username, role string) error {
	query := r.dialect.Rebind(`DELETE FROM user_roles WHERE username = ? AND role = ?`)
	return r.deleteOne(ctx, query, username, role)
}

// GrantPermission is idempotent.
func (r *SQLRepository) GrantPermission(ctx context.Context, role, perm string) error {
	query := r.dialect.Rebind(
		`INSERT INTO roles_perms (role, perm) VALUES (?, ?)
		 ON CONFLICT DO NOTHING`)

	if _, err := r.db.ExecContext(ctx, query, role, perm); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) RevokePermission(ctx context.Context, role, perm string) error {
	query := r.dialect.Rebind(`DELETE FROM roles_perms WHERE role = ? AND perm = ?`)
	return r.deleteOne(ctx, query, role, perm)
}

// Roles lists the user's roles in name order.
func (r *SQLRepository) Roles(ctx context.Context, username string) ([]string, error) {
	query := r.dialect.Rebind(`SELECT role FROM user_roles WHERE username = ? ORDER BY role`)

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return roles, nil
}

func (r *SQLRepository) DeleteUserRoles(ctx context.Context, username string) error {
	query := r.dialect.Rebind(`DELETE FROM user_roles WHERE username = ?`)

	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) deleteOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
