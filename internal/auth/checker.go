package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sqlauth/internal/common"
	"github.com/dmitrijs2005/sqlauth/internal/dbx"
	"github.com/dmitrijs2005/sqlauth/internal/logging"
	"github.com/dmitrijs2005/sqlauth/internal/metrics"
)

// Metric kinds and error labels.
const (
	kindRole       = "role"
	kindPermission = "permission"
	kindQuery      = "query"
)

// Checker answers membership questions for an authenticated principal by
// scanning the rows of a roles or permissions query.
type Checker struct {
	exec       dbx.Executor
	rolesQuery string
	permsQuery string
	logger     logging.Logger
	metrics    *metrics.Metrics
}

func NewChecker(exec dbx.Executor, rolesQuery, permsQuery string, opts ...Option) (*Checker, error) {
	if exec == nil {
		return nil, fmt.Errorf("%w: executor is nil", common.ErrInvalidConfig)
	}
	if rolesQuery == "" || permsQuery == "" {
		return nil, fmt.Errorf("%w: roles and permissions queries are required", common.ErrInvalidConfig)
	}
	o := buildOptions(opts)
	return &Checker{
		exec:       exec,
		rolesQuery: rolesQuery,
		permsQuery: permsQuery,
		logger:     o.logger.With("component", "checker"),
		metrics:    o.metrics,
	}, nil
}

func (c *Checker) HasRole(ctx context.Context, p *Principal, role string) (bool, error) {
	return c.hasOne(ctx, kindRole, p, role, c.rolesQuery)
}

func (c *Checker) HasPermission(ctx context.Context, p *Principal, perm string) (bool, error) {
	return c.hasOne(ctx, kindPermission, p, perm, c.permsQuery)
}

func (c *Checker) HasAllRoles(ctx context.Context, p *Principal, roles []string) (bool, error) {
	return c.hasAll(ctx, kindRole, p, roles, c.rolesQuery)
}

func (c *Checker) HasAllPermissions(ctx context.Context, p *Principal, perms []string) (bool, error) {
	return c.hasAll(ctx, kindPermission, p, perms, c.permsQuery)
}

// HasOne reports whether query, run for p's username, yields name in
// column 0. The scan stops at the first match.
func (c *Checker) HasOne(ctx context.Context, p *Principal, name, query string) (bool, error) {
	return c.hasOne(ctx, kindQuery, p, name, query)
}

// HasAll reports whether query, run for p's username, yields every one of
// names in column 0. The scan stops as soon as all have been seen. An
// empty names slice is trivially satisfied and issues no query.
func (c *Checker) HasAll(ctx context.Context, p *Principal, names []string, query string) (bool, error) {
	return c.hasAll(ctx, kindQuery, p, names, query)
}

func (c *Checker) hasOne(ctx context.Context, kind string, p *Principal, name, query string) (ok bool, err error) {
	op := "has " + kind
	defer func() { c.metrics.ObserveCheck(kind, checkResult(ok, err)) }()

	if p == nil {
		return false, missingField(op, "principal")
	}

	err = c.exec.Query(ctx, query, []any{p.username}, func(row dbx.Row) (bool, error) {
		v, notNull, err := row.String(0)
		if err != nil {
			return false, err
		}
		if notNull && v == name {
			ok = true
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		c.logger.Error(ctx, "membership query failed", "kind", kind, "username", p.username, "error", err)
		return false, backendUnavailable(op, kind, err)
	}

	c.logger.Debug(ctx, "membership checked", "kind", kind, "username", p.username, "name", name, "granted", ok)
	return ok, nil
}

func (c *Checker) hasAll(ctx context.Context, kind string, p *Principal, names []string, query string) (ok bool, err error) {
	op := "has all " + kind
	defer func() { c.metrics.ObserveCheck(kind, checkResult(ok, err)) }()

	if p == nil {
		return false, missingField(op, "principal")
	}
	if len(names) == 0 {
		return true, nil
	}

	pending := make(map[string]struct{}, len(names))
	for _, n := range names {
		pending[n] = struct{}{}
	}

	err = c.exec.Query(ctx, query, []any{p.username}, func(row dbx.Row) (bool, error) {
		v, notNull, err := row.String(0)
		if err != nil {
			return false, err
		}
		if notNull {
			delete(pending, v)
		}
		return len(pending) > 0, nil
	})
	if err != nil {
		c.logger.Error(ctx, "membership query failed", "kind", kind, "username", p.username, "error", err)
		return false, backendUnavailable(op, kind, err)
	}

	ok = len(pending) == 0
	c.logger.Debug(ctx, "membership checked", "kind", kind, "username", p.username, "names", len(names), "granted", ok)
	return ok, nil
}

func checkResult(ok bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case ok:
		return "granted"
	default:
		return "denied"
	}
}
