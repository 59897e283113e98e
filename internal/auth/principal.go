package auth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/dmitrijs2005/sqlauth/internal/common"
)

// lenSize is the width of the big-endian username length prefix.
const lenSize = 4

// Principal is an authenticated identity. The zero value is not a valid
// principal; values come from Verifier.Authenticate or from decoding.
type Principal struct {
	username string
}

func (p *Principal) Username() string { return p.username }

func (p *Principal) String() string { return "Principal(" + p.username + ")" }

// AppendBinary appends the wire form of p to b.
//
// The layout is an envelope block, empty for this provider, followed by a
// 4-byte big-endian length and the UTF-8 username.
func (p *Principal) AppendBinary(b []byte) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil principal", common.ErrMalformedPrincipal)
	}
	if p.username == "" {
		return nil, fmt.Errorf("%w: empty username", common.ErrMalformedPrincipal)
	}
	if uint64(len(p.username)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: username too long", common.ErrMalformedPrincipal)
	}
	b = binary.BigEndian.AppendUint32(b, uint32(len(p.username)))
	return append(b, p.username...), nil
}

func (p *Principal) MarshalBinary() ([]byte, error) {
	if p == nil {
		return p.AppendBinary(nil)
	}
	return p.AppendBinary(make([]byte, 0, lenSize+len(p.username)))
}

// UnmarshalBinary decodes data into a zero Principal. Principals are
// immutable, so decoding into a populated one fails.
func (p *Principal) UnmarshalBinary(data []byte) error {
	if p.username != "" {
		return errors.New("auth: unmarshal into a non-zero principal")
	}
	d, err := DecodePrincipal(data)
	if err != nil {
		return err
	}
	p.username = d.username
	return nil
}

// DecodePrincipal decodes a buffer holding exactly one principal.
func DecodePrincipal(buf []byte) (*Principal, error) {
	p, next, err := ReadPrincipal(buf, 0)
	if err != nil {
		return nil, err
	}
	if next != len(buf) {
		return nil, fmt.Errorf("%w: %d trailing bytes", common.ErrMalformedPrincipal, len(buf)-next)
	}
	return p, nil
}

// ReadPrincipal decodes a principal starting at pos and returns the offset
// just past it, so principals can be embedded in larger buffers.
func ReadPrincipal(buf []byte, pos int) (*Principal, int, error) {
	if pos < 0 || pos > len(buf) || len(buf)-pos < lenSize {
		return nil, pos, fmt.Errorf("%w: short buffer", common.ErrMalformedPrincipal)
	}
	n := uint64(binary.BigEndian.Uint32(buf[pos:]))
	start := pos + lenSize
	if n > uint64(len(buf)-start) {
		return nil, pos, fmt.Errorf("%w: length %d exceeds buffer", common.ErrMalformedPrincipal, n)
	}
	end := start + int(n)

	name := buf[start:end]
	if len(name) == 0 {
		return nil, pos, fmt.Errorf("%w: empty username", common.ErrMalformedPrincipal)
	}
	if !utf8.Valid(name) {
		return nil, pos, fmt.Errorf("%w: username is not valid UTF-8", common.ErrMalformedPrincipal)
	}
	return &Principal{username: string(name)}, end, nil
}
