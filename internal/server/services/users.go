// Package services holds the provisioning logic that sits between the
// admin surfaces and the repositories: creating users with hashed
// passwords and managing role and permission grants.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/sqlauth/internal/auth/hashing"
	"github.com/dmitrijs2005/sqlauth/internal/common"
	"github.com/dmitrijs2005/sqlauth/internal/dbx"
	"github.com/dmitrijs2005/sqlauth/internal/logging"
	"github.com/dmitrijs2005/sqlauth/internal/server/models"
	"github.com/dmitrijs2005/sqlauth/internal/server/repositories/repomanager"
)

// UserService provisions users. Passwords are hashed with a fresh random
// salt, so the strategy must read the salt column back on verification.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	strategy    hashing.Strategy
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, strategy hashing.Strategy, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &UserService{db: db, repomanager: m, strategy: strategy, logger: logger}
}

// newSalt is a seam for tests.
var newSalt = hashing.NewSalt

// Register creates a user and grants it roles in one transaction.
func (s *UserService) Register(ctx context.Context, username, password string, roles ...string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username: %w", common.ErrMissingField)
	}
	if password == "" {
		return nil, fmt.Errorf("password: %w", common.ErrMissingField)
	}

	salt, err := newSalt()
	if err != nil {
		return nil, fmt.Errorf("error generating salt: %w", err)
	}

	user := &models.User{
		UserName:     username,
		PasswordHash: s.strategy.ComputeHash(password, salt),
		Salt:         salt,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err = s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		grants := s.repomanager.Grants(tx)
		for _, role := range roles {
			if err := grants.GrantRole(ctx, username, role); err != nil {
				return fmt.Errorf("error granting role %q: %w", role, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.Roles = append([]string(nil), roles...)
	s.logger.Info(ctx, "user registered", "username", username, "roles", len(roles))
	return user, nil
}

// GetUser returns the user with its roles.
func (s *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		return nil, err
	}

	user.Roles, err = s.repomanager.Grants(s.db).Roles(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error listing roles: %w", err)
	}
	return user, nil
}

// DeleteUser removes the user and its role assignments.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Grants(tx).DeleteUserRoles(ctx, username); err != nil {
			return fmt.Errorf("error deleting roles: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, username); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted", "username", username)
	return nil
}

// GrantRole assigns role to an existing user.
func (s *UserService) GrantRole(ctx context.Context, username, role string) error {
	if role == "" {
		return fmt.Errorf("role: %w", common.ErrMissingField)
	}
	if _, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username); err != nil {
		return fmt.Errorf("user %q: %w", username, err)
	}
	if err := s.repomanager.Grants(s.db).GrantRole(ctx, username, role); err != nil {
		return err
	}

	s.logger.Info(ctx, "role granted", "username", username, "role", role)
	return nil
}

func (s *UserService) RevokeRole(ctx context.Context, username, role string) error {
	if err := s.repomanager.Grants(s.db).RevokeRole(ctx, username, role); err != nil {
		return err
	}

	s.logger.Info(ctx, "role revoked", "username", username, "role", role)
	return nil
}

// GrantPermission attaches perm to role. Roles exist implicitly.
func (s *UserService) GrantPermission(ctx context.Context, role, perm string) error {
	if role == "" {
		return fmt.Errorf("role: %w", common.ErrMissingField)
	}
	if perm == "" {
		return fmt.Errorf("permission: %w", common.ErrMissingField)
	}
	if err := s.repomanager.Grants(s.db).GrantPermission(ctx, role, perm); err != nil {
		return err
	}

	s.logger.Info(ctx, "permission granted", "role", role, "permission", perm)
	return nil
}

func (s *UserService) RevokePermission(ctx context.Context, role, perm string) error {
	if err := s.repomanager.Grants(s.db).RevokePermission(ctx, role, perm); err != nil {
		return err
	}

	s.logger.Info(ctx, "permission revoked", "role", role, "permission", perm)
	return nil
}
