package meta

import (
	"fmt"

	"github.com/act3-ai/git-ibundle/internal/git"
)

// Current builds the live snapshot of a repository: every direct reference,
// a synthetic "HEAD" entry when HEAD peels to a commit, and the peeled
// commit for every distinct target id.
func Current(repo git.Repository) (Meta, error) {
	m := New()

	refs, err := repo.References()
	if err != nil {
		return Meta{}, err
	}
	for _, ref := range refs {
		m.ORefs[ref.Name] = ref.OID
	}

	head, err := repo.Head()
	if err != nil {
		return Meta{}, err
	}
	m.HeadRef = head.Target
	m.HeadDetached = head.Detached
	if oid, ok := repo.HeadCommit(); ok {
		m.ORefs["HEAD"] = oid
	}

	for _, oid := range m.ORefs {
		commitOID, comment, err := repo.PeelToCommit(oid)
		if err != nil {
			return Meta{}, fmt.Errorf("resolving snapshot commit: %w", err)
		}
		m.Commits[commitOID] = comment
	}
	return m, nil
}
