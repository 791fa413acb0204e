package lineio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadLine(t *testing.T) {
	t.Run("Strips Terminator", func(t *testing.T) {
		r := NewReader(strings.NewReader("alpha\nbeta\n"))

		line, ok, err := r.ReadLine()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "alpha", line)

		line, ok, err = r.ReadLine()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "beta", line)
	})

	t.Run("Blank And EOF", func(t *testing.T) {
		r := NewReader(strings.NewReader("\n"))

		line, ok, err := r.ReadLine()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, line)

		_, ok, err = r.ReadLine()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Preserves Non UTF8 Bytes", func(t *testing.T) {
		raw := "refs/heads/b\x80r"
		r := NewReader(strings.NewReader(raw + "\n"))

		line, ok, err := r.ReadLine()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, raw, line)
	})
}

func TestReader_Remaining(t *testing.T) {
	r := NewReader(strings.NewReader("header\n\nPACKbytes"))

	_, _, err := r.ReadLine()
	require.NoError(t, err)
	_, ok, err := r.ReadLine()
	require.NoError(t, err)
	require.False(t, ok)

	rest, err := io.ReadAll(r.Remaining())
	require.NoError(t, err)
	assert.Equal(t, "PACKbytes", string(rest))
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	oid := plumbing.NewHash("0123456789abcdef0123456789abcdef01234567")
	require.NoError(t, w.WriteDirective("head_ref", "refs/heads/main"))
	require.NoError(t, w.WriteOIDLine(oid, "refs/tags/v1 with space"))
	require.NoError(t, w.WriteTerminator())
	require.NoError(t, w.WriteLine())

	assert.Equal(t,
		"%head_ref refs/heads/main\n"+
			"0123456789abcdef0123456789abcdef01234567 refs/tags/v1 with space\n"+
			".\n"+
			"\n",
		buf.String())
}

func TestSplitDirective(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		directive, rest, err := SplitDirective("%seq_num 42")
		require.NoError(t, err)
		assert.Equal(t, "seq_num", directive)
		assert.Equal(t, "42", rest)
	})

	t.Run("No Argument", func(t *testing.T) {
		directive, rest, err := SplitDirective("%prereqs")
		require.NoError(t, err)
		assert.Equal(t, "prereqs", directive)
		assert.Empty(t, rest)
	})

	t.Run("Not A Directive", func(t *testing.T) {
		_, _, err := SplitDirective("seq_num 42")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestParseBool(t *testing.T) {
	v, err := ParseBool("true")
	require.NoError(t, err)
	assert.True(t, v)

	v, err = ParseBool("false")
	require.NoError(t, err)
	assert.False(t, v)

	_, err = ParseBool("True")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ParseBool("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParseSeqNum(t *testing.T) {
	n, err := ParseSeqNum("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), n)

	_, err = ParseSeqNum("-1")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ParseSeqNum("abc")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParseOID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		oid, err := ParseOID("0123456789abcdef0123456789abcdef01234567")
		require.NoError(t, err)
		assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", oid.String())
	})

	t.Run("Rejects Uppercase", func(t *testing.T) {
		_, err := ParseOID("0123456789ABCDEF0123456789ABCDEF01234567")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("Rejects Short", func(t *testing.T) {
		_, err := ParseOID("0123456789abcdef")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestSplitOIDLine(t *testing.T) {
	t.Run("Rest Verbatim", func(t *testing.T) {
		oid, rest, err := SplitOIDLine("0123456789abcdef0123456789abcdef01234567 one two \x80 three")
		require.NoError(t, err)
		assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", oid.String())
		assert.Equal(t, "one two \x80 three", rest)
	})

	t.Run("Missing Space", func(t *testing.T) {
		_, _, err := SplitOIDLine("0123456789abcdef0123456789abcdef01234567")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "'refs/heads/main'", Quote("refs/heads/main"))
	assert.Equal(t, `"refs/heads/b\x80r"`, Quote("refs/heads/b\x80r"))
	assert.Equal(t, `"it's"`, Quote("it's"))
}
