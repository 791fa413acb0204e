// Package ibundle implements the v2 ibundle file format: a textual header
// describing a ref-set delta between two repository snapshots, followed by a
// blank line and an embedded git packfile.
package ibundle

import (
	"errors"
	"fmt"
	"io"

	"github.com/act3-ai/git-ibundle/internal/lineio"
	"github.com/act3-ai/git-ibundle/internal/meta"
)

// FormatV2 is the ibundle sentinel line.
const FormatV2 = "# v2 git ibundle"

// ErrUnsupportedVersion indicates the first line is not the v2 sentinel.
var ErrUnsupportedVersion = errors.New("unsupported ibundle version")

// Directive names of the v2 header.
const (
	dirRepoID         = "repo_id"
	dirSeqNum         = "seq_num"
	dirBasisSeqNum    = "basis_seq_num"
	dirHeadRef        = "head_ref"
	dirHeadDetached   = "head_detached"
	dirPrereqs        = "prereqs"
	dirAddedPacked    = "added_packed_orefs"
	dirAddedNotPacked = "added_not_packed_orefs"
	dirRemovedORefs   = "removed_orefs"
	dirMovedPacked    = "moved_packed_orefs"
	dirMovedNotPacked = "moved_not_packed_orefs"
	dirUnchangedORefs = "unchanged_orefs"
)

// IBundle is the parsed header of an ibundle file.
//
// Added, Moved, Removed, and Unchanged are pairwise disjoint by name.
// Unchanged is present exactly when the ibundle is standalone. PackedNames
// holds the subset of Added ∪ Moved names whose target object is contained
// in the embedded pack; the commits of the remaining wanted refs are listed
// in Prereqs.
type IBundle struct {
	RepoID       string
	SeqNum       meta.SeqNum
	BasisSeqNum  meta.SeqNum
	HeadRef      string
	HeadDetached bool

	Prereqs   meta.Commits
	Added     meta.ORefs
	Moved     meta.ORefs
	Removed   meta.ORefs
	Unchanged meta.ORefs

	Standalone  bool
	PackedNames map[string]bool
}

// New returns an empty ibundle header.
func New() IBundle {
	return IBundle{
		Prereqs:     make(meta.Commits),
		Added:       make(meta.ORefs),
		Moved:       make(meta.ORefs),
		Removed:     make(meta.ORefs),
		Unchanged:   make(meta.ORefs),
		PackedNames: make(map[string]bool),
	}
}

// Equal reports whether two headers match exactly.
func (ib IBundle) Equal(other IBundle) bool {
	if ib.RepoID != other.RepoID ||
		ib.SeqNum != other.SeqNum ||
		ib.BasisSeqNum != other.BasisSeqNum ||
		ib.HeadRef != other.HeadRef ||
		ib.HeadDetached != other.HeadDetached ||
		ib.Standalone != other.Standalone {
		return false
	}
	if !ib.Prereqs.Equal(other.Prereqs) ||
		!ib.Added.Equal(other.Added) ||
		!ib.Moved.Equal(other.Moved) ||
		!ib.Removed.Equal(other.Removed) ||
		!ib.Unchanged.Equal(other.Unchanged) {
		return false
	}
	if len(ib.PackedNames) != len(other.PackedNames) {
		return false
	}
	for name := range ib.PackedNames {
		if !other.PackedNames[name] {
			return false
		}
	}
	return true
}

// Read parses an ibundle header, returning the line reader positioned at the
// embedded pack bytes. Directives are accepted in any order; the packed and
// not-packed partitions merge into Added/Moved plus PackedNames.
func Read(r io.Reader) (IBundle, *lineio.Reader, error) {
	lr := lineio.NewReader(r)
	line, _, err := lr.ReadLine()
	if err != nil {
		return IBundle{}, nil, err
	}
	if line != FormatV2 {
		return IBundle{}, nil, fmt.Errorf("%w: got %s", ErrUnsupportedVersion, lineio.Quote(line))
	}

	ib := New()
	for {
		line, ok, err := lr.ReadLine()
		if err != nil {
			return IBundle{}, nil, err
		}
		if !ok {
			return ib, lr, nil
		}
		directive, rest, err := lineio.SplitDirective(line)
		if err != nil {
			return IBundle{}, nil, err
		}
		switch directive {
		case dirRepoID:
			ib.RepoID = rest
		case dirSeqNum:
			var n uint64
			n, err = lineio.ParseSeqNum(rest)
			ib.SeqNum = meta.SeqNum(n)
		case dirBasisSeqNum:
			var n uint64
			n, err = lineio.ParseSeqNum(rest)
			ib.BasisSeqNum = meta.SeqNum(n)
		case dirHeadRef:
			ib.HeadRef = rest
		case dirHeadDetached:
			ib.HeadDetached, err = lineio.ParseBool(rest)
		case dirPrereqs:
			ib.Prereqs, err = meta.ReadCommits(lr)
		case dirAddedPacked:
			err = ib.mergePart(lr, ib.Added, true)
		case dirAddedNotPacked:
			err = ib.mergePart(lr, ib.Added, false)
		case dirRemovedORefs:
			ib.Removed, err = meta.ReadORefs(lr)
		case dirMovedPacked:
			err = ib.mergePart(lr, ib.Moved, true)
		case dirMovedNotPacked:
			err = ib.mergePart(lr, ib.Moved, false)
		case dirUnchangedORefs:
			ib.Standalone = true
			ib.Unchanged, err = meta.ReadORefs(lr)
		default:
			err = fmt.Errorf("%w: unknown ibundle directive %s", lineio.ErrInvalidFormat, lineio.Quote(directive))
		}
		if err != nil {
			return IBundle{}, nil, err
		}
	}
}

func (ib IBundle) mergePart(lr *lineio.Reader, into meta.ORefs, packed bool) error {
	part, err := meta.ReadORefs(lr)
	if err != nil {
		return err
	}
	for name, oid := range part {
		into[name] = oid
		if packed {
			ib.PackedNames[name] = true
		}
	}
	return nil
}

// Write serializes the header in the fixed v2 order, ending with the blank
// line that precedes the pack bytes. The unchanged_orefs directive is
// emitted only for standalone ibundles.
func (ib IBundle) Write(w io.Writer) error {
	lw := lineio.NewWriter(w)
	if err := lw.WriteLine(FormatV2); err != nil {
		return err
	}
	if err := lw.WriteDirective(dirRepoID, ib.RepoID); err != nil {
		return err
	}
	if err := lw.WriteDirective(dirSeqNum, fmt.Sprintf("%d", ib.SeqNum)); err != nil {
		return err
	}
	if err := lw.WriteDirective(dirBasisSeqNum, fmt.Sprintf("%d", ib.BasisSeqNum)); err != nil {
		return err
	}
	if err := lw.WriteDirective(dirHeadRef, ib.HeadRef); err != nil {
		return err
	}
	if err := lw.WriteDirective(dirHeadDetached, lineio.FormatBool(ib.HeadDetached)); err != nil {
		return err
	}
	if err := lw.WriteDirective(dirPrereqs, ""); err != nil {
		return err
	}
	if err := ib.Prereqs.Write(lw); err != nil {
		return err
	}

	addedPacked, addedNotPacked := ib.splitPacked(ib.Added)
	movedPacked, movedNotPacked := ib.splitPacked(ib.Moved)

	parts := []struct {
		directive string
		orefs     meta.ORefs
	}{
		{dirAddedPacked, addedPacked},
		{dirAddedNotPacked, addedNotPacked},
		{dirRemovedORefs, ib.Removed},
		{dirMovedPacked, movedPacked},
		{dirMovedNotPacked, movedNotPacked},
	}
	for _, part := range parts {
		if err := lw.WriteDirective(part.directive, ""); err != nil {
			return err
		}
		if err := part.orefs.Write(lw); err != nil {
			return err
		}
	}
	if ib.Standalone {
		if err := lw.WriteDirective(dirUnchangedORefs, ""); err != nil {
			return err
		}
		if err := ib.Unchanged.Write(lw); err != nil {
			return err
		}
	}
	return lw.WriteLine()
}

func (ib IBundle) splitPacked(orefs meta.ORefs) (packed, notPacked meta.ORefs) {
	packed = make(meta.ORefs)
	notPacked = make(meta.ORefs)
	for name, oid := range orefs {
		if ib.PackedNames[name] {
			packed[name] = oid
		} else {
			notPacked[name] = oid
		}
	}
	return packed, notPacked
}

// ApplyBasis completes a delta ibundle against its basis snapshot by
// synthesizing the unchanged ref set. Standalone ibundles carry it already.
func (ib *IBundle) ApplyBasis(basis meta.Meta) {
	if ib.Standalone {
		return
	}
	ib.Unchanged = make(meta.ORefs)
	for name, oid := range basis.ORefs {
		if _, removed := ib.Removed[name]; removed {
			continue
		}
		if _, moved := ib.Moved[name]; moved {
			continue
		}
		ib.Unchanged[name] = oid
	}
}

// FullORefs is the reconstructed complete ref set: added, moved, and
// unchanged refs, disjoint by name.
func (ib IBundle) FullORefs() meta.ORefs {
	full := make(meta.ORefs, len(ib.Added)+len(ib.Moved)+len(ib.Unchanged))
	for name, oid := range ib.Added {
		full[name] = oid
	}
	for name, oid := range ib.Moved {
		full[name] = oid
	}
	for name, oid := range ib.Unchanged {
		full[name] = oid
	}
	return full
}
