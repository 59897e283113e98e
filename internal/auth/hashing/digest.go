package hashing

import (
	"crypto"
	_ "crypto/md5"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"strings"

	_ "golang.org/x/crypto/sha3"

	"github.com/dmitrijs2005/sqlauth/internal/common"
)

// DefaultAlgorithm is the digest used when nothing else is configured.
const DefaultAlgorithm = "SHA-512"

var algorithms = map[string]crypto.Hash{
	"MD4":         crypto.MD4,
	"MD5":         crypto.MD5,
	"SHA-1":       crypto.SHA1,
	"SHA-224":     crypto.SHA224,
	"SHA-256":     crypto.SHA256,
	"SHA-384":     crypto.SHA384,
	"SHA-512":     crypto.SHA512,
	"SHA-512/256": crypto.SHA512_256,
	"SHA3-256":    crypto.SHA3_256,
	"SHA3-512":    crypto.SHA3_512,
	"RIPEMD-160":  crypto.RIPEMD160,
}

// resolve finds a digest by name ("SHA-512", "sha512", "sha-512" all work)
// and checks that its implementation is linked into the binary.
func resolve(name string) (crypto.Hash, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	h, ok := algorithms[key]
	if !ok {
		h, ok = algorithms[strings.Replace(key, "SHA", "SHA-", 1)]
	}
	if !ok && strings.HasPrefix(key, "SHA3") {
		h, ok = algorithms["SHA3-"+strings.TrimLeft(key[4:], "-")]
	}
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrUnsupportedAlgorithm, name)
	}
	if !h.Available() {
		return 0, fmt.Errorf("%w: %q is not linked into this binary", common.ErrUnsupportedAlgorithm, name)
	}
	return h, nil
}

// Digest hashes salt ++ password with a single pass of a message digest
// and renders the result as uppercase hex.
type Digest struct {
	columns
	hash crypto.Hash
	name string
}

// NewDigest builds a Digest strategy. An unknown or unavailable algorithm
// fails with common.ErrUnsupportedAlgorithm.
func NewDigest(algorithm string, opts ...Option) (*Digest, error) {
	h, err := resolve(algorithm)
	if err != nil {
		return nil, err
	}
	return &Digest{columns: newColumns(opts), hash: h, name: algorithm}, nil
}

// NewDefault returns the SHA-512 Digest strategy.
func NewDefault(opts ...Option) *Digest {
	d, err := NewDigest(DefaultAlgorithm, opts...)
	if err != nil {
		// crypto/sha512 is imported above.
		panic(err)
	}
	return d
}

func (d *Digest) ComputeHash(password, salt string) string {
	h := d.hash.New()
	h.Write([]byte(salt))
	h.Write([]byte(password))
	return upperHex(h.Sum(nil))
}

func (d *Digest) String() string { return d.name }
