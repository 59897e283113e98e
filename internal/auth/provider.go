package auth

import (
	"fmt"

	"github.com/dmitrijs2005/sqlauth/internal/common"
	"github.com/dmitrijs2005/sqlauth/internal/dbx"
)

// Provider bundles a Verifier and a Checker built from one Config.
type Provider struct {
	*Verifier
	*Checker
}

// New validates cfg and builds a Provider on top of exec.
func New(exec dbx.Executor, cfg Config, opts ...Option) (*Provider, error) {
	if exec == nil {
		return nil, fmt.Errorf("%w: executor is nil", common.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	v, err := NewVerifier(exec, cfg.AuthenticateQuery, cfg.Strategy, opts...)
	if err != nil {
		return nil, err
	}
	c, err := NewChecker(exec, cfg.RolesQuery, cfg.PermissionsQuery, opts...)
	if err != nil {
		return nil, err
	}
	return &Provider{Verifier: v, Checker: c}, nil
}

// FromBuffer restores a principal previously serialized with
// Principal.MarshalBinary.
func (p *Provider) FromBuffer(buf []byte) (*Principal, error) {
	return DecodePrincipal(buf)
}
