package hashing

import (
	"crypto"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dmitrijs2005/sqlauth/internal/common"
)

// PBKDF2 derives a key with PBKDF2-HMAC over the configured digest and
// renders it as uppercase hex.
type PBKDF2 struct {
	columns
	hash       crypto.Hash
	iterations int
	keyLen     int
	name       string
}

// NewPBKDF2 builds a PBKDF2 strategy. Iterations and key length must be
// positive.
func NewPBKDF2(algorithm string, iterations, keyLen int, opts ...Option) (*PBKDF2, error) {
	h, err := resolve(algorithm)
	if err != nil {
		return nil, err
	}
	if iterations <= 0 || keyLen <= 0 {
		return nil, fmt.Errorf("%w: pbkdf2 needs positive iterations and key length", common.ErrInvalidConfig)
	}
	return &PBKDF2{
		columns:    newColumns(opts),
		hash:       h,
		iterations: iterations,
		keyLen:     keyLen,
		name:       algorithm,
	}, nil
}

func (p *PBKDF2) ComputeHash(password, salt string) string {
	return upperHex(pbkdf2.Key([]byte(password), []byte(salt), p.iterations, p.keyLen, p.hash.New))
}

func (p *PBKDF2) String() string { return "pbkdf2-" + p.name }
