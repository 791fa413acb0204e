package gitcmd

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/act3-ai/git-ibundle/internal/bundle"
	"github.com/act3-ai/git-ibundle/internal/lineio"
	"github.com/act3-ai/git-ibundle/internal/testutils"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

func TestPackRequest_WriteTo(t *testing.T) {
	req := PackRequest{
		Exclude: []plumbing.Hash{
			plumbing.NewHash("1111111111111111111111111111111111111111"),
		},
		Want: []string{"refs/heads/main", "refs/heads/b\x80r", "HEAD"},
	}

	var buf bytes.Buffer
	_, err := req.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t,
		"^1111111111111111111111111111111111111111\n"+
			"refs/heads/main\n"+
			"refs/heads/b\x80r\n"+
			"HEAD\n",
		buf.String())
}

func TestRunner_BundleCreate(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	b, err := testutils.NewRepoBuilder(dir)
	require.NoError(t, err)
	c1, err := b.CreateCommit("a.txt", "alpha")
	require.NoError(t, err)

	runner := NewRunner(filepath.Join(dir, ".git"))
	var stderr bytes.Buffer
	runner.Stderr = &stderr

	t.Run("Success", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.bundle")
		empty, err := runner.BundleCreate(t.Context(), out, PackRequest{
			Want: []string{"refs/heads/master"},
		}, true)
		require.NoError(t, err)
		assert.False(t, empty)

		f, err := os.Open(out)
		require.NoError(t, err)
		defer f.Close()
		header, err := bundle.Read(lineio.NewReader(f))
		require.NoError(t, err)
		assert.Equal(t, c1, header.Refs["refs/heads/master"])
		assert.Empty(t, header.Prereqs)
	})

	t.Run("Empty Bundle Sentinel", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "empty.bundle")
		empty, err := runner.BundleCreate(t.Context(), out, PackRequest{}, true)
		require.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("Excluded Ref Omitted From Header", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "excluded.bundle")
		empty, err := runner.BundleCreate(t.Context(), out, PackRequest{
			Exclude: []plumbing.Hash{c1},
			Want:    []string{"refs/heads/master"},
		}, true)
		require.NoError(t, err)
		// master's tip predates the exclusion boundary, so the bundle
		// has nothing to pack
		assert.True(t, empty)
	})
}

func TestRunner_FetchBundle(t *testing.T) {
	requireGit(t)

	srcDir := t.TempDir()
	b, err := testutils.NewRepoBuilder(srcDir)
	require.NoError(t, err)
	c1, err := b.CreateCommit("a.txt", "alpha")
	require.NoError(t, err)

	srcRunner := NewRunner(filepath.Join(srcDir, ".git"))
	bundlePath := filepath.Join(t.TempDir(), "src.bundle")
	empty, err := srcRunner.BundleCreate(t.Context(), bundlePath, PackRequest{
		Want: []string{"refs/heads/master"},
	}, true)
	require.NoError(t, err)
	require.False(t, empty)

	destDir := t.TempDir()
	destRepo, err := testutils.InitBare(destDir)
	require.NoError(t, err)

	destRunner := NewRunner(destDir)
	require.NoError(t, destRunner.FetchBundle(t.Context(), bundlePath, true, false))

	ref, err := destRepo.Reference(plumbing.NewBranchReferenceName("master"), false)
	require.NoError(t, err)
	assert.Equal(t, c1, ref.Hash())
}

func TestRunner_FetchBundle_Failure(t *testing.T) {
	requireGit(t)

	destDir := t.TempDir()
	_, err := testutils.InitBare(destDir)
	require.NoError(t, err)

	runner := NewRunner(destDir)
	var stderr bytes.Buffer
	runner.Stderr = &stderr

	err = runner.FetchBundle(t.Context(), filepath.Join(destDir, "no-such.bundle"), true, false)
	assert.ErrorIs(t, err, ErrBundleFetcher)
}
