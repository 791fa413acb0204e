package actions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/act3-ai/git-ibundle/internal/bundle"
	"github.com/act3-ai/git-ibundle/internal/gitcmd"
	"github.com/act3-ai/git-ibundle/internal/ibundle"
	"github.com/act3-ai/git-ibundle/internal/lineio"
	"github.com/act3-ai/git-ibundle/internal/meta"
	"github.com/act3-ai/git-ibundle/internal/progress"
)

// Create produces the next ibundle in the repository's sequence.
type Create struct {
	*Tool

	// IBundlePath is the output file.
	IBundlePath string

	// Standalone forces inclusion of the full ref set.
	Standalone bool

	// Basis selects an alternate basis sequence number when BasisSet.
	Basis    meta.SeqNum
	BasisSet bool

	// BasisCurrent makes the ibundle's own snapshot its basis, implying
	// Standalone and AllowEmpty.
	BasisCurrent bool

	// AllowEmpty permits an ibundle with an all-empty delta.
	AllowEmpty bool

	// Quiet suppresses summary output.
	Quiet bool
}

// Run runs the create action.
func (action *Create) Run(ctx context.Context) error {
	repo, err := action.Repo(ctx)
	if err != nil {
		return err
	}
	store, err := action.Store(ctx)
	if err != nil {
		return err
	}

	repoID, ok := store.ReadID()
	if !ok {
		repoID = meta.NewID()
		if err := store.WriteID(repoID); err != nil {
			return err
		}
		slog.InfoContext(ctx, "allocated repo id", slog.String("repo_id", repoID))
	}

	seqNums, err := store.SeqNums()
	if err != nil {
		return err
	}
	seqNum, err := meta.NextSeqNum(seqNums)
	if err != nil {
		return err
	}

	standalone := action.Standalone
	allowEmpty := action.AllowEmpty
	var basisSeqNum meta.SeqNum
	switch {
	case action.BasisCurrent:
		basisSeqNum = seqNum
		standalone = true
		allowEmpty = true
	case action.BasisSet:
		basisSeqNum = action.Basis
		if basisSeqNum != 0 && !store.Has(basisSeqNum) {
			return fmt.Errorf("%w: basis not present for --basis %d", ErrBasisMissing, basisSeqNum)
		}
	default:
		basisSeqNum = meta.MaxSeqNum(seqNums)
	}
	standalone = standalone || basisSeqNum == 0

	cur, err := meta.Current(repo)
	if err != nil {
		return err
	}
	var basisMeta meta.Meta
	if action.BasisCurrent {
		basisMeta = cur
	} else {
		basisMeta, err = store.Load(basisSeqNum)
		if err != nil {
			return err
		}
	}

	if cur.Equal(basisMeta) && !allowEmpty {
		return fmt.Errorf("%w; consider --allow-empty", ErrRefusedEmpty)
	}

	delta := meta.Diff(basisMeta.ORefs, cur.ORefs)

	// Objects the destination is assumed to hold: everything the basis
	// snapshot names, restricted to objects this repository still has.
	exclude := excludeSet(repo.HasObject, basisMeta)

	wanted := delta.Added.Clone()
	for name, oid := range delta.Moved {
		wanted[name] = oid
	}
	if standalone {
		wanted = cur.ORefs.Clone()
	}

	header, packReader, cleanup, err := action.writePack(ctx, exclude, wanted)
	if err != nil {
		return err
	}
	defer cleanup()

	prereqs := header.Prereqs.Clone()
	packedNames := make(map[string]bool, len(header.Refs))
	for name := range header.Refs {
		packedNames[name] = true
	}

	// A wanted ref the pack writer skipped points into history the basis
	// already covers; its commit becomes an explicit prerequisite.
	for _, name := range wanted.Names() {
		if packedNames[name] {
			continue
		}
		commitOID, comment, err := repo.PeelToCommit(wanted[name])
		if err != nil {
			return fmt.Errorf("resolving unpacked ref %s: %w", lineio.Quote(name), err)
		}
		if _, ok := prereqs[commitOID]; !ok {
			prereqs[commitOID] = comment
		}
	}

	ib := ibundle.IBundle{
		RepoID:       repoID,
		SeqNum:       seqNum,
		BasisSeqNum:  basisSeqNum,
		HeadRef:      cur.HeadRef,
		HeadDetached: cur.HeadDetached,
		Prereqs:      prereqs,
		Added:        delta.Added,
		Moved:        delta.Moved,
		Removed:      delta.Removed,
		Unchanged:    make(meta.ORefs),
		Standalone:   standalone,
		PackedNames:  packedNames,
	}
	if standalone {
		ib.Unchanged = delta.Unchanged
	}

	out, err := os.Create(action.IBundlePath)
	if err != nil {
		return fmt.Errorf("creating ibundle file %s: %w", action.IBundlePath, err)
	}
	defer out.Close()
	if err := ib.Write(out); err != nil {
		return fmt.Errorf("writing ibundle header: %w", err)
	}
	if _, err := progress.Copy(ctx, out, packReader, "pack"); err != nil {
		return fmt.Errorf("embedding pack in ibundle: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing ibundle file %s: %w", action.IBundlePath, err)
	}

	if err := store.Write(seqNum, cur); err != nil {
		return err
	}

	if !action.Quiet {
		action.printf("wrote %s, seq_num=%d, %d/%d refs\n",
			lineio.Quote(action.IBundlePath), seqNum,
			len(ib.Added)+len(ib.Moved), len(cur.ORefs))
	}
	return nil
}

// writePack invokes the pack writer and parses the resulting bundle,
// returning its header and a reader over the raw pack bytes. When the pack
// writer refuses to pack nothing, a synthesized empty bundle substitutes.
func (action *Create) writePack(ctx context.Context, exclude []plumbing.Hash, wanted meta.ORefs) (bundle.Header, io.Reader, func(), error) {
	runner, err := action.Runner(ctx)
	if err != nil {
		return bundle.Header{}, nil, nil, err
	}
	store, err := action.Store(ctx)
	if err != nil {
		return bundle.Header{}, nil, nil, err
	}

	tmp, cleanup, err := store.TempFile("create-*.bundle")
	if err != nil {
		return bundle.Header{}, nil, nil, err
	}
	// The pack writer writes the file itself.
	tmpPath := tmp.Name()
	tmp.Close()

	req := gitcmd.PackRequest{
		Exclude: exclude,
		Want:    wanted.Names(),
	}
	empty, err := runner.BundleCreate(ctx, tmpPath, req, action.Quiet)
	if err != nil {
		cleanup()
		return bundle.Header{}, nil, nil, err
	}
	if empty {
		slog.DebugContext(ctx, "pack writer refused empty bundle, synthesizing")
		cleanup()
		return bundle.NewHeader(), bytes.NewReader(bundle.EmptyPack), func() {}, nil
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		cleanup()
		return bundle.Header{}, nil, nil, fmt.Errorf("opening staged bundle %s: %w", tmpPath, err)
	}
	closeAll := func() {
		f.Close()
		cleanup()
	}
	lr := lineio.NewReader(f)
	header, err := bundle.Read(lr)
	if err != nil {
		closeAll()
		return bundle.Header{}, nil, nil, fmt.Errorf("parsing staged bundle header: %w", err)
	}
	return header, lr.Remaining(), closeAll, nil
}

// excludeSet collects the object ids named by the basis snapshot that the
// repository still has, in stable order.
func excludeSet(hasObject func(plumbing.Hash) bool, basis meta.Meta) []plumbing.Hash {
	seen := make(map[plumbing.Hash]bool)
	for oid := range basis.Commits {
		seen[oid] = true
	}
	for _, oid := range basis.ORefs {
		seen[oid] = true
	}
	oids := make([]plumbing.Hash, 0, len(seen))
	for oid := range seen {
		if hasObject(oid) {
			oids = append(oids, oid)
		}
	}
	sort.Slice(oids, func(i, j int) bool {
		return bytes.Compare(oids[i][:], oids[j][:]) < 0
	})
	return oids
}
