package meta_test

import (
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/act3-ai/git-ibundle/internal/git"
	"github.com/act3-ai/git-ibundle/internal/meta"
	"github.com/act3-ai/git-ibundle/internal/mocks/gitmock"
)

func oidOf(c byte) plumbing.Hash {
	return plumbing.NewHash(strings.Repeat(string(c), 40))
}

func TestCurrent(t *testing.T) {
	commit1 := oidOf('1')
	commit2 := oidOf('2')
	tagObj := oidOf('3')

	t.Run("Synthetic HEAD And Peeled Commits", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := gitmock.NewMockRepository(ctrl)

		repo.EXPECT().References().Return([]git.Ref{
			{Name: "refs/heads/main", OID: commit1},
			{Name: "refs/tags/atag", OID: tagObj},
		}, nil)
		repo.EXPECT().Head().Return(git.Head{Target: "refs/heads/main"}, nil)
		repo.EXPECT().HeadCommit().Return(commit1, true)
		repo.EXPECT().PeelToCommit(commit1).Return(commit1, "first", nil).Times(2)
		repo.EXPECT().PeelToCommit(tagObj).Return(commit2, "tagged", nil)

		m, err := meta.Current(repo)
		require.NoError(t, err)

		assert.Equal(t, "refs/heads/main", m.HeadRef)
		assert.False(t, m.HeadDetached)
		assert.Equal(t, meta.ORefs{
			"refs/heads/main": commit1,
			"refs/tags/atag":  tagObj,
			"HEAD":            commit1,
		}, m.ORefs)
		assert.Equal(t, meta.Commits{
			commit1: "first",
			commit2: "tagged",
		}, m.Commits)
	})

	t.Run("Detached HEAD", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := gitmock.NewMockRepository(ctrl)

		repo.EXPECT().References().Return([]git.Ref{
			{Name: "refs/heads/main", OID: commit1},
		}, nil)
		repo.EXPECT().Head().Return(git.Head{Target: commit2.String(), Detached: true}, nil)
		repo.EXPECT().HeadCommit().Return(commit2, true)
		repo.EXPECT().PeelToCommit(commit1).Return(commit1, "first", nil)
		repo.EXPECT().PeelToCommit(commit2).Return(commit2, "second", nil)

		m, err := meta.Current(repo)
		require.NoError(t, err)
		assert.True(t, m.HeadDetached)
		assert.Equal(t, commit2.String(), m.HeadRef)
		assert.Equal(t, commit2, m.ORefs["HEAD"])
	})

	t.Run("Unborn HEAD", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := gitmock.NewMockRepository(ctrl)

		repo.EXPECT().References().Return(nil, nil)
		repo.EXPECT().Head().Return(git.Head{Target: "refs/heads/main"}, nil)
		repo.EXPECT().HeadCommit().Return(oidOf('0'), false)

		m, err := meta.Current(repo)
		require.NoError(t, err)
		assert.Empty(t, m.ORefs)
		assert.Empty(t, m.Commits)
		assert.Equal(t, "refs/heads/main", m.HeadRef)
	})

	t.Run("Non Direct Ref", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := gitmock.NewMockRepository(ctrl)

		repo.EXPECT().References().Return(nil, git.ErrNonDirectRef)

		_, err := meta.Current(repo)
		assert.ErrorIs(t, err, git.ErrNonDirectRef)
	})
}
