package actions

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	requireGit(t)
	b, srcDir := sourceRepo(t)

	t.Run("No State", func(t *testing.T) {
		out := new(bytes.Buffer)
		action := &Status{Tool: NewTool("test", srcDir, out, nil)}
		require.NoError(t, action.Run(t.Context()))

		assert.Contains(t, out.String(), "repo_id: NONE")
		assert.Contains(t, out.String(), "max_seq_num: 0")
		assert.Contains(t, out.String(), "next_seq_num: 1")
	})

	t.Run("After Creates", func(t *testing.T) {
		require.NoError(t, runCreate(t, srcDir, ibundlePath(t, "1.ibundle"), nil))
		_, err := b.CreateCommit("b.txt", "beta")
		require.NoError(t, err)
		require.NoError(t, runCreate(t, srcDir, ibundlePath(t, "2.ibundle"), nil))

		out := new(bytes.Buffer)
		action := &Status{Tool: NewTool("test", srcDir, out, nil), Long: true}
		require.NoError(t, action.Run(t.Context()))

		got := out.String()
		assert.NotContains(t, got, "repo_id: NONE")
		assert.Contains(t, got, "max_seq_num: 2")
		assert.Contains(t, got, "next_seq_num: 3")
		assert.Contains(t, got, "long_details:")
		assert.Contains(t, got, "refs/heads/master")
	})
}
