package meta

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/act3-ai/git-ibundle/internal/lineio"
)

func oid(c byte) plumbing.Hash {
	return plumbing.NewHash(strings.Repeat(string(c), 40))
}

func TestORefs_Write(t *testing.T) {
	orefs := ORefs{
		"refs/tags/v1":    oid('3'),
		"refs/heads/main": oid('1'),
		"refs/heads/dev":  oid('2'),
	}

	var buf bytes.Buffer
	require.NoError(t, orefs.Write(lineio.NewWriter(&buf)))

	// byte-lexicographic name order, terminated list
	assert.Equal(t,
		strings.Repeat("2", 40)+" refs/heads/dev\n"+
			strings.Repeat("1", 40)+" refs/heads/main\n"+
			strings.Repeat("3", 40)+" refs/tags/v1\n"+
			".\n",
		buf.String())
}

func TestReadORefs(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		in := strings.Repeat("1", 40) + " refs/heads/main\n.\n"
		orefs, err := ReadORefs(lineio.NewReader(strings.NewReader(in)))
		require.NoError(t, err)
		assert.Equal(t, ORefs{"refs/heads/main": oid('1')}, orefs)
	})

	t.Run("Missing Terminator", func(t *testing.T) {
		in := strings.Repeat("1", 40) + " refs/heads/main\n"
		_, err := ReadORefs(lineio.NewReader(strings.NewReader(in)))
		assert.ErrorIs(t, err, lineio.ErrInvalidFormat)
	})
}

func TestCommits_Write(t *testing.T) {
	commits := Commits{
		oid('2'): "second",
		oid('1'): "first",
	}

	var buf bytes.Buffer
	require.NoError(t, commits.Write(lineio.NewWriter(&buf)))
	assert.Equal(t,
		strings.Repeat("1", 40)+" first\n"+
			strings.Repeat("2", 40)+" second\n"+
			".\n",
		buf.String())
}

func TestMeta_RoundTrip(t *testing.T) {
	m := New()
	m.HeadRef = "refs/heads/main"
	m.ORefs["refs/heads/main"] = oid('1')
	m.ORefs["refs/heads/b\x80r"] = oid('2')
	m.ORefs["HEAD"] = oid('1')
	m.Commits[oid('1')] = "first commit"
	m.Commits[oid('2')] = "commit with \x80 bytes"

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, got.Equal(m), "round-tripped meta differs")
}

func TestMeta_RoundTrip_Detached(t *testing.T) {
	m := New()
	m.HeadRef = strings.Repeat("a", 40)
	m.HeadDetached = true

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, got.HeadDetached)
	assert.Equal(t, m.HeadRef, got.HeadRef)
}

func TestRead(t *testing.T) {
	t.Run("Bad Sentinel", func(t *testing.T) {
		_, err := Read(strings.NewReader("# v2 repo meta\n\n"))
		assert.ErrorIs(t, err, lineio.ErrInvalidFormat)
	})

	t.Run("Unknown Directive", func(t *testing.T) {
		_, err := Read(strings.NewReader(FormatV1 + "\n%bogus x\n\n"))
		assert.ErrorIs(t, err, lineio.ErrInvalidFormat)
	})
}

func TestDiff(t *testing.T) {
	basis := ORefs{
		"refs/heads/main":  oid('1'),
		"refs/heads/gone":  oid('2'),
		"refs/tags/stable": oid('3'),
	}
	current := ORefs{
		"refs/heads/main":  oid('4'), // moved
		"refs/heads/new":   oid('5'), // added
		"refs/tags/stable": oid('3'), // unchanged
	}

	d := Diff(basis, current)

	assert.Equal(t, ORefs{"refs/heads/new": oid('5')}, d.Added)
	assert.Equal(t, ORefs{"refs/heads/main": oid('4')}, d.Moved)
	assert.Equal(t, ORefs{"refs/tags/stable": oid('3')}, d.Unchanged)
	assert.Equal(t, ORefs{"refs/heads/gone": oid('2')}, d.Removed)
}

func TestDiff_Empty(t *testing.T) {
	d := Diff(ORefs{}, ORefs{"refs/heads/main": oid('1')})
	assert.Equal(t, ORefs{"refs/heads/main": oid('1')}, d.Added)
	assert.Empty(t, d.Moved)
	assert.Empty(t, d.Unchanged)
	assert.Empty(t, d.Removed)
}
