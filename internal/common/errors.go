// Package common defines sentinel errors shared by the authentication core,
// the provisioning store and the transport layer. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Authentication and authorization kinds.
	ErrMissingField       = errors.New("missing field")
	ErrInvalidCredentials = errors.New("invalid username/password")
	ErrAmbiguousIdentity  = errors.New("ambiguous identity")
	ErrBackendUnavailable = errors.New("backend unavailable")

	// Configuration errors, reported at construction time.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrInvalidConfig        = errors.New("invalid config")

	// Principal decoding.
	ErrMalformedPrincipal = errors.New("malformed principal")

	// Provisioning store errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
