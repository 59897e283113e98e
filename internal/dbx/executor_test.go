package dbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_String(t *testing.T) {
	row := Row{"text", []byte("bytes"), nil, int64(7)}

	s, ok, err := row.String(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "text", s)

	s, ok, err = row.String(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bytes", s)

	s, ok, err = row.String(2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, s)

	_, _, err = row.String(3)
	assert.ErrorContains(t, err, "unsupported type int64")

	_, _, err = row.String(4)
	assert.ErrorContains(t, err, "out of range")

	_, _, err = row.String(-1)
	assert.Error(t, err)

	assert.Equal(t, 4, row.Len())
}

func TestBuildExecutorOptions_SkipsNil(t *testing.T) {
	o := buildExecutorOptions([]ExecutorOption{nil, WithMetrics(nil)})
	assert.Nil(t, o.metrics)
}
