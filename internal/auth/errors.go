package auth

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/sqlauth/internal/common"
)

// Error is returned by every Provider operation. Kind is one of the
// sentinels in package common; Err is the underlying cause, if any.
//
// Both errors.Is(err, Kind) and errors.Is(err, Err) hold.
type Error struct {
	Op    string
	Kind  error
	Field string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("auth: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("error")
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func missingField(op, field string) error {
	return &Error{Op: op, Kind: common.ErrMissingField, Field: field}
}

// invalidCredentials carries no field and no cause: an unknown user and a
// wrong password must be indistinguishable.
func invalidCredentials(op string) error {
	return &Error{Op: op, Kind: common.ErrInvalidCredentials}
}

func backendUnavailable(op, field string, cause error) error {
	return &Error{Op: op, Kind: common.ErrBackendUnavailable, Field: field, Err: cause}
}

// resultLabel maps an operation outcome onto a metrics label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, common.ErrMissingField):
		return "missing_field"
	case errors.Is(err, common.ErrAmbiguousIdentity):
		return "ambiguous_identity"
	case errors.Is(err, common.ErrBackendUnavailable):
		return "backend_unavailable"
	default:
		return "error"
	}
}
