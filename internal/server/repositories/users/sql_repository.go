package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sqlauth/internal/common"
	"github.com/dmitrijs2005/sqlauth/internal/dbx"
	"github.com/dmitrijs2005/sqlauth/internal/server/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// Create inserts user with a fresh id. A taken username yields
// common.ErrAlreadyExists.
func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := r.dialect.Rebind(
		`INSERT INTO users (id, username, password, password_salt)
		 VALUES (?, ?, ?, ?)`)

	id := uuid.NewString()

	var salt any
	if user.Salt != "" {
		salt = user.Salt
	}

	if _, err := r.db.ExecContext(ctx, query, id, user.UserName, user.PasswordHash, salt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("user %q: %w", user.UserName, common.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = id
	return user, nil
}

func (r *SQLRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query := r.dialect.Rebind(
		`SELECT id, username, password, password_salt FROM users
		 WHERE username = ?`)

	user := &models.User{}
	var salt sql.NullString
	err := r.db.QueryRowContext(ctx, query, login).Scan(&user.ID, &user.UserName, &user.PasswordHash, &salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.Salt = salt.String

	return user, nil
}

func (r *SQLRepository) Delete(ctx context.Context, login string) error {
	query := r.dialect.Rebind(`DELETE FROM users WHERE username = ?`)

	res, err := r.db.ExecContext(ctx, query, login)
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
