package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sqlauth/internal/auth/hashing"
	"github.com/dmitrijs2005/sqlauth/internal/common"
	"github.com/dmitrijs2005/sqlauth/internal/dbx"
)

// Credentials is a username/password pair. An empty field counts as
// missing.
type Credentials struct {
	Username string
	Password string
}

// Queries holds the three lookup statements. Each takes the username as
// its only parameter.
//
// AuthenticateQuery must select the stored hash and salt columns where the
// strategy expects them. RolesQuery and PermissionsQuery must select the
// role or permission name in column 0.
type Queries struct {
	AuthenticateQuery string
	RolesQuery        string
	PermissionsQuery  string
}

// Config is the immutable configuration shared by a Provider's Verifier
// and Checker.
type Config struct {
	Queries
	Strategy hashing.Strategy
}

const (
	defaultAuthenticateQuery = `SELECT password, password_salt FROM users WHERE username = ?`
	defaultRolesQuery        = `SELECT role FROM user_roles WHERE username = ?`
	defaultPermissionsQuery  = `SELECT rp.perm FROM roles_perms rp JOIN user_roles ur ON ur.role = rp.role WHERE ur.username = ?`
)

// DefaultQueries returns the queries matching the bundled schema, with
// placeholders in the dialect's syntax.
func DefaultQueries(d dbx.Dialect) Queries {
	return Queries{
		AuthenticateQuery: d.Rebind(defaultAuthenticateQuery),
		RolesQuery:        d.Rebind(defaultRolesQuery),
		PermissionsQuery:  d.Rebind(defaultPermissionsQuery),
	}
}

// DefaultConfig returns DefaultQueries with the SHA-512 strategy.
func DefaultConfig(d dbx.Dialect) Config {
	return Config{Queries: DefaultQueries(d), Strategy: hashing.NewDefault()}
}

// Validate reports the first missing piece of c.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.AuthenticateQuery) == "":
		return fmt.Errorf("%w: authenticate query is empty", common.ErrInvalidConfig)
	case strings.TrimSpace(c.RolesQuery) == "":
		return fmt.Errorf("%w: roles query is empty", common.ErrInvalidConfig)
	case strings.TrimSpace(c.PermissionsQuery) == "":
		return fmt.Errorf("%w: permissions query is empty", common.ErrInvalidConfig)
	case c.Strategy == nil:
		return fmt.Errorf("%w: hash strategy is nil", common.ErrInvalidConfig)
	}
	return nil
}
