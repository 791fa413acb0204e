package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader("0123456789"))

	buf := make([]byte, 4)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	total, delta := r.Progress()
	assert.Equal(t, int64(4), total)
	assert.Equal(t, int64(4), delta)

	// delta resets, total accumulates
	_, err = r.Read(buf)
	require.NoError(t, err)
	total, delta = r.Progress()
	assert.Equal(t, int64(8), total)
	assert.Equal(t, int64(4), delta)
	assert.Equal(t, int64(8), r.Total())
}

func TestCopy(t *testing.T) {
	src := strings.Repeat("x", 1<<16)
	var dst bytes.Buffer

	n, err := Copy(t.Context(), &dst, strings.NewReader(src), "pack")
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, dst.String())
}
