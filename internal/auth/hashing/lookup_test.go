package hashing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sqlauth/internal/common"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		wantStr string
		wantErr error
	}{
		{name: "", wantStr: "SHA-512"},
		{name: "sha256", wantStr: "sha256"},
		{name: "argon2id", wantStr: "argon2id"},
		{name: "ARGON2ID", wantStr: "argon2id"},
		{name: "pbkdf2-sha256", wantStr: "pbkdf2-sha256"},
		{name: "pbkdf2-nope", wantErr: common.ErrUnsupportedAlgorithm},
		{name: "bcrypt", wantErr: common.ErrUnsupportedAlgorithm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Lookup(tt.name)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			str, ok := s.(interface{ String() string })
			require.True(t, ok)
			assert.Equal(t, tt.wantStr, str.String())
		})
	}
}

func TestArgon2id(t *testing.T) {
	a, err := NewArgon2id(Argon2idParams{Time: 1, MemoryKiB: 1024, Threads: 1, KeyLen: 16})
	require.NoError(t, err)

	h := a.ComputeHash("pw", "salt-salt")
	assert.Len(t, h, 32)
	assert.Equal(t, h, a.ComputeHash("pw", "salt-salt"))
	assert.NotEqual(t, h, a.ComputeHash("pw", "other-salt"))
	assert.Equal(t, strings.ToUpper(h), h)
}

func TestNewArgon2id_RejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		params Argon2idParams
	}{
		{"zero time", Argon2idParams{Time: 0, MemoryKiB: 64, Threads: 1, KeyLen: 32}},
		{"zero threads", Argon2idParams{Time: 1, MemoryKiB: 64, Threads: 0, KeyLen: 32}},
		{"zero key length", Argon2idParams{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 0}},
		{"all zero", Argon2idParams{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewArgon2id(tt.params)
			require.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.Nil(t, a)
		})
	}
}

func TestNewArgon2id_SmallMemoryStillHashes(t *testing.T) {
	a, err := NewArgon2id(Argon2idParams{Time: 1, MemoryKiB: 64, Threads: 2, KeyLen: 8})
	require.NoError(t, err)

	assert.NotPanics(t, func() { assert.Len(t, a.ComputeHash("pw", "salt"), 16) })
}

func TestPBKDF2(t *testing.T) {
	p, err := NewPBKDF2("SHA-256", 1000, 20)
	require.NoError(t, err)

	h := p.ComputeHash("pw", "salt")
	assert.Len(t, h, 40)
	assert.Equal(t, h, p.ComputeHash("pw", "salt"))
	assert.NotEqual(t, h, p.ComputeHash("pw", "pepper"))

	_, err = NewPBKDF2("SHA-256", 0, 20)
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt()
	require.NoError(t, err)
	b, err := NewSalt()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, strings.ToUpper(a), a)
	assert.NotEqual(t, a, b)
}
