package actions

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/act3-ai/git-ibundle/internal/git"
	"github.com/act3-ai/git-ibundle/internal/meta"
	"github.com/act3-ai/git-ibundle/internal/testutils"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

func newTool(t *testing.T, repoPath string) *Tool {
	t.Helper()
	return NewTool("test", repoPath, new(bytes.Buffer), nil)
}

// sourceRepo builds a non-bare source with one commit on master, a
// lightweight tag, and an annotated tag.
func sourceRepo(t *testing.T) (*testutils.RepoBuilder, string) {
	t.Helper()
	dir := t.TempDir()
	b, err := testutils.NewRepoBuilder(dir)
	require.NoError(t, err)
	c1, err := b.CreateCommit("a.txt", "alpha")
	require.NoError(t, err)
	_, err = b.CreateTag("tag1", c1)
	require.NoError(t, err)
	_, err = b.CreateAnnotatedTag("atag1", "first release", c1)
	require.NoError(t, err)
	return b, dir
}

func bareDest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := testutils.InitBare(dir)
	require.NoError(t, err)
	return dir
}

func runCreate(t *testing.T, repoPath, ibundlePath string, mutate func(*Create)) error {
	t.Helper()
	action := &Create{
		Tool:        newTool(t, repoPath),
		IBundlePath: ibundlePath,
		Quiet:       true,
	}
	if mutate != nil {
		mutate(action)
	}
	return action.Run(t.Context())
}

func runFetch(t *testing.T, repoPath, ibundlePath string, mutate func(*Fetch)) error {
	t.Helper()
	action := &Fetch{
		Tool:        newTool(t, repoPath),
		IBundlePath: ibundlePath,
		Quiet:       true,
	}
	if mutate != nil {
		mutate(action)
	}
	return action.Run(t.Context())
}

// repoState reads the live snapshot of the repository at path.
func repoState(t *testing.T, path string) meta.Meta {
	t.Helper()
	repo, err := git.Open(path)
	require.NoError(t, err)
	m, err := meta.Current(repo)
	require.NoError(t, err)
	return m
}

// requireMirrored asserts the destination exactly reproduces the source's
// refs and HEAD.
func requireMirrored(t *testing.T, srcDir, destDir string) {
	t.Helper()
	src := repoState(t, srcDir)
	dest := repoState(t, destDir)
	require.True(t, dest.ORefs.Equal(src.ORefs),
		"destination refs %v differ from source refs %v", dest.ORefs, src.ORefs)
	require.Equal(t, src.HeadRef, dest.HeadRef)
	require.Equal(t, src.HeadDetached, dest.HeadDetached)
}

func ibundlePath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o666)
}
