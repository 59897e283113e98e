// Package hashing provides the pluggable password-hashing contract used to
// verify credentials, together with its implementations.
//
// A Strategy turns a password and an optional salt into a comparable
// string and knows where the stored hash and salt live in a fetched row.
// Strategies are immutable once built and safe for concurrent use.
package hashing

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/dmitrijs2005/sqlauth/internal/dbx"
)

// Strategy is the capability set the verifier needs from a hashing scheme.
type Strategy interface {
	// ComputeHash is pure and deterministic. An empty salt means unsalted.
	ComputeHash(password, salt string) string

	// StoredHash reads the stored hash from a fetched row.
	StoredHash(row dbx.Row) (string, error)

	// Salt reads the salt from a fetched row. ok is false when the row
	// carries no salt (NULL, or the column is not selected at all).
	Salt(row dbx.Row) (salt string, ok bool, err error)
}

// Option adjusts where a strategy finds its columns.
type Option func(*columns)

// WithColumns sets the positions of the hash and salt columns.
func WithColumns(hash, salt int) Option {
	return func(c *columns) {
		c.hash = hash
		c.salt = salt
	}
}

// WithoutSalt makes the strategy ignore any salt column.
func WithoutSalt() Option {
	return func(c *columns) { c.salt = -1 }
}

// columns implements the row half of Strategy. Hash defaults to column 0,
// salt to column 1.
type columns struct {
	hash int
	salt int
}

func newColumns(opts []Option) columns {
	c := columns{hash: 0, salt: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

var errNullHash = errors.New("stored hash is NULL")

func (c columns) StoredHash(row dbx.Row) (string, error) {
	s, ok, err := row.String(c.hash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errNullHash
	}
	return s, nil
}

func (c columns) Salt(row dbx.Row) (string, bool, error) {
	if c.salt < 0 || c.salt >= row.Len() {
		return "", false, nil
	}
	return row.String(c.salt)
}

// upperHex encodes b as uppercase hex, high nibble first, no separators.
func upperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
