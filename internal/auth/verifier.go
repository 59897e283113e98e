package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/sqlauth/internal/auth/hashing"
	"github.com/dmitrijs2005/sqlauth/internal/common"
	"github.com/dmitrijs2005/sqlauth/internal/dbx"
	"github.com/dmitrijs2005/sqlauth/internal/logging"
	"github.com/dmitrijs2005/sqlauth/internal/metrics"
)

const opAuthenticate = "authenticate"

// Verifier checks credentials against the row returned by the
// authenticate query.
type Verifier struct {
	exec     dbx.Executor
	query    string
	strategy hashing.Strategy
	logger   logging.Logger
	metrics  *metrics.Metrics
}

func NewVerifier(exec dbx.Executor, query string, strategy hashing.Strategy, opts ...Option) (*Verifier, error) {
	if exec == nil {
		return nil, fmt.Errorf("%w: executor is nil", common.ErrInvalidConfig)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: authenticate query is empty", common.ErrInvalidConfig)
	}
	if strategy == nil {
		return nil, fmt.Errorf("%w: hash strategy is nil", common.ErrInvalidConfig)
	}
	o := buildOptions(opts)
	return &Verifier{
		exec:     exec,
		query:    query,
		strategy: strategy,
		logger:   o.logger.With("component", "verifier"),
		metrics:  o.metrics,
	}, nil
}

// Authenticate looks the user up, hashes the supplied password with the
// stored salt and compares the result with the stored hash.
//
// It returns common.ErrMissingField for an empty username or password,
// common.ErrInvalidCredentials for an unknown user or a wrong password,
// common.ErrAmbiguousIdentity when the query yields more than one row and
// common.ErrBackendUnavailable when the store fails or returns a row the
// strategy cannot read.
//
// An empty password is reported as missing and never hashed, so accounts
// stored with the hash of "" cannot sign in.
func (v *Verifier) Authenticate(ctx context.Context, c Credentials) (p *Principal, err error) {
	defer func() { v.metrics.ObserveAuthentication(resultLabel(err)) }()

	if c.Username == "" {
		return nil, missingField(opAuthenticate, "username")
	}
	if c.Password == "" {
		return nil, missingField(opAuthenticate, "password")
	}

	// Two rows are enough to tell "exactly one" from "more than one".
	rows := make([]dbx.Row, 0, 2)
	err = v.exec.Query(ctx, v.query, []any{c.Username}, func(row dbx.Row) (bool, error) {
		rows = append(rows, row)
		return len(rows) < 2, nil
	})
	if err != nil {
		v.logger.Error(ctx, "authenticate query failed", "username", c.Username, "error", err)
		return nil, backendUnavailable(opAuthenticate, "", err)
	}

	switch len(rows) {
	case 0:
		v.logger.Debug(ctx, "unknown user", "username", c.Username)
		return nil, invalidCredentials(opAuthenticate)
	case 1:
	default:
		v.logger.Warn(ctx, "authenticate query returned more than one row", "username", c.Username)
		return nil, &Error{Op: opAuthenticate, Kind: common.ErrAmbiguousIdentity}
	}

	stored, err := v.strategy.StoredHash(rows[0])
	if err != nil {
		v.logger.Error(ctx, "unreadable hash column", "username", c.Username, "error", err)
		return nil, backendUnavailable(opAuthenticate, "hash", err)
	}
	salt, _, err := v.strategy.Salt(rows[0])
	if err != nil {
		v.logger.Error(ctx, "unreadable salt column", "username", c.Username, "error", err)
		return nil, backendUnavailable(opAuthenticate, "salt", err)
	}

	computed := v.strategy.ComputeHash(c.Password, salt)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) != 1 {
		v.logger.Debug(ctx, "password mismatch", "username", c.Username)
		return nil, invalidCredentials(opAuthenticate)
	}

	v.logger.Debug(ctx, "authenticated", "username", c.Username)
	return &Principal{username: c.Username}, nil
}
