package actions

import (
	"context"
	"fmt"

	"github.com/act3-ai/git-ibundle/internal/meta"
)

// Status reports the repository's mirroring state: identity and sequence
// numbers, optionally per-sequence detail.
type Status struct {
	*Tool

	// Long lists every recorded sequence with its ref count and HEAD.
	Long bool
}

// Run runs the status action.
func (action *Status) Run(ctx context.Context) error {
	store, err := action.Store(ctx)
	if err != nil {
		return err
	}

	repoID, ok := store.ReadID()
	if !ok {
		repoID = "NONE"
	}
	seqNums, err := store.SeqNums()
	if err != nil {
		return err
	}
	nextSeqNum, err := meta.NextSeqNum(seqNums)
	if err != nil {
		return err
	}

	action.printf("repo_id: %s\n", repoID)
	action.printf("max_seq_num: %d\n", meta.MaxSeqNum(seqNums))
	action.printf("next_seq_num: %d\n", nextSeqNum)

	if !action.Long || len(seqNums) == 0 {
		return nil
	}
	action.printf("long_details:\n")
	action.printf("  %-8s %-8s %s\n", "seq_num", "num_refs", "HEAD")
	var failed error
	for i := len(seqNums) - 1; i >= 0; i-- {
		seq := seqNums[i]
		m, err := store.Load(seq)
		if err != nil {
			action.printf("  %-8d **Error: %v\n", seq, err)
			failed = fmt.Errorf("reading snapshot %d: %w", seq, err)
			continue
		}
		action.printf("  %-8d %-8d %s%s\n", seq, len(m.ORefs), m.HeadRef, longDetached(m.HeadDetached))
	}
	return failed
}

func longDetached(detached bool) string {
	if detached {
		return " (detached)"
	}
	return ""
}
