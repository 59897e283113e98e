package hashing

import (
	"strings"

	"github.com/dmitrijs2005/sqlauth/internal/common"
)

// Iteration count for PBKDF2 strategies built by Lookup.
const defaultPBKDF2Iterations = 210_000

// Lookup builds a strategy from its configuration name:
//
//	sha512, SHA-256, sha3-512, ...   single-pass digest
//	argon2id                         Argon2id with DefaultArgon2idParams
//	pbkdf2-sha256, pbkdf2-sha512     PBKDF2-HMAC, 32-byte key
//
// An empty name selects DefaultAlgorithm.
func Lookup(name string, opts ...Option) (Strategy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == "":
		return NewDefault(opts...), nil
	case n == "argon2id":
		a, err := NewArgon2id(DefaultArgon2idParams(), opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	case strings.HasPrefix(n, "pbkdf2-"):
		p, err := NewPBKDF2(strings.TrimPrefix(n, "pbkdf2-"), defaultPBKDF2Iterations, 32, opts...)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		d, err := NewDigest(name, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// NewSalt returns 32 random bytes as uppercase hex, suitable for storing
// next to a hash.
func NewSalt() (string, error) {
	s, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(s), nil
}
