package hashing

import (
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/sqlauth/internal/common"
)

// Argon2idParams are the Argon2id cost parameters.
type Argon2idParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
}

// DefaultArgon2idParams is one pass over 64 MiB with 4 lanes and a
// 32-byte key.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{Time: 1, MemoryKiB: 64 * 1024, Threads: 4, KeyLen: 32}
}

// Argon2id derives an Argon2id key from password and salt and renders it
// as uppercase hex.
type Argon2id struct {
	columns
	params Argon2idParams
}

// NewArgon2id rejects parameters argon2.IDKey would panic on or that
// yield an empty key.
func NewArgon2id(params Argon2idParams, opts ...Option) (*Argon2id, error) {
	switch {
	case params.Time == 0:
		return nil, fmt.Errorf("%w: argon2id time must be positive", common.ErrInvalidConfig)
	case params.Threads == 0:
		return nil, fmt.Errorf("%w: argon2id threads must be positive", common.ErrInvalidConfig)
	case params.KeyLen == 0:
		return nil, fmt.Errorf("%w: argon2id key length must be positive", common.ErrInvalidConfig)
	}
	return &Argon2id{columns: newColumns(opts), params: params}, nil
}

func (a *Argon2id) ComputeHash(password, salt string) string {
	p := a.params
	key := argon2.IDKey([]byte(password), []byte(salt), p.Time, p.MemoryKiB, p.Threads, p.KeyLen)
	return upperHex(key)
}

func (a *Argon2id) String() string { return "argon2id" }
