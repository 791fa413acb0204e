package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/act3-ai/git-ibundle/internal/git"
	"github.com/act3-ai/git-ibundle/internal/meta"
)

func TestClean(t *testing.T) {
	requireGit(t)
	b, srcDir := sourceRepo(t)

	t.Run("No Repo ID", func(t *testing.T) {
		action := &Clean{Tool: newTool(t, srcDir), Keep: 1, KeepSet: true}
		assert.Error(t, action.Run(t.Context()))
	})

	require.NoError(t, runCreate(t, srcDir, ibundlePath(t, "1.ibundle"), nil))
	for _, name := range []string{"b.txt", "c.txt", "d.txt"} {
		_, err := b.CreateCommit(name, name)
		require.NoError(t, err)
		require.NoError(t, runCreate(t, srcDir, ibundlePath(t, name+".ibundle"), nil))
	}

	srcRepo, err := git.Open(srcDir)
	require.NoError(t, err)
	store := meta.NewStore(srcRepo.GitDir())

	t.Run("Nothing To Clean", func(t *testing.T) {
		action := &Clean{Tool: newTool(t, srcDir), Keep: 10, KeepSet: true}
		require.NoError(t, action.Run(t.Context()))

		seqNums, err := store.SeqNums()
		require.NoError(t, err)
		assert.Len(t, seqNums, 4)
	})

	t.Run("Prunes Smallest", func(t *testing.T) {
		action := &Clean{Tool: newTool(t, srcDir), Keep: 2, KeepSet: true}
		require.NoError(t, action.Run(t.Context()))

		seqNums, err := store.SeqNums()
		require.NoError(t, err)
		assert.Equal(t, []meta.SeqNum{4, 3}, seqNums)

		// identity survives cleaning
		_, ok := store.ReadID()
		assert.True(t, ok)
	})
}
