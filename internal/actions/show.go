package actions

import (
	"context"
	"fmt"
	"os"

	"github.com/act3-ai/git-ibundle/internal/ibundle"
	"github.com/act3-ai/git-ibundle/internal/lineio"
	"github.com/act3-ai/git-ibundle/internal/meta"
)

// Show inspects an ibundle file without touching any repository.
type Show struct {
	*Tool

	// IBundlePath is the input file.
	IBundlePath string
}

// Run runs the show action.
func (action *Show) Run(_ context.Context) error {
	f, err := os.Open(action.IBundlePath)
	if err != nil {
		return fmt.Errorf("opening ibundle file %s: %w", action.IBundlePath, err)
	}
	defer f.Close()
	ib, _, err := ibundle.Read(f)
	if err != nil {
		return fmt.Errorf("reading ibundle file %s: %w", action.IBundlePath, err)
	}

	action.printf("repo_id: %s\n", ib.RepoID)
	action.printf("seq_num: %d\n", ib.SeqNum)
	action.printf("basis_seq_num: %d\n", ib.BasisSeqNum)
	action.printf("standalone: %s\n", lineio.FormatBool(ib.Standalone))
	action.printf("head_ref: %s\n", lineio.Quote(ib.HeadRef))
	action.printf("head_detached: %s\n", lineio.FormatBool(ib.HeadDetached))

	action.printf("prereqs (%d):\n", len(ib.Prereqs))
	for _, oid := range ib.Prereqs.OIDs() {
		action.printf("  %s %s\n", oid, ib.Prereqs[oid])
	}
	action.printORefs("added", ib.Added, ib.PackedNames)
	action.printORefs("moved", ib.Moved, ib.PackedNames)
	action.printORefs("removed", ib.Removed, nil)
	if ib.Standalone {
		action.printORefs("unchanged", ib.Unchanged, nil)
	}
	return nil
}

// printORefs lists a ref section; packed refs are marked when the section
// partitions on pack membership.
func (action *Show) printORefs(label string, orefs meta.ORefs, packedNames map[string]bool) {
	action.printf("%s (%d):\n", label, len(orefs))
	for _, name := range orefs.Names() {
		marker := ""
		if packedNames != nil && !packedNames[name] {
			marker = " (not packed)"
		}
		action.printf("  %s %s%s\n", orefs[name], lineio.Quote(name), marker)
	}
}
