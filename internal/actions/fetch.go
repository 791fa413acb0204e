package actions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/act3-ai/git-ibundle/internal/bundle"
	"github.com/act3-ai/git-ibundle/internal/git"
	"github.com/act3-ai/git-ibundle/internal/ibundle"
	"github.com/act3-ai/git-ibundle/internal/lineio"
	"github.com/act3-ai/git-ibundle/internal/meta"
	"github.com/act3-ai/git-ibundle/internal/progress"
)

// Fetch applies an ibundle to a bare destination repository, reproducing
// the source's refs and HEAD.
type Fetch struct {
	*Tool

	// IBundlePath is the input file.
	IBundlePath string

	// DryRun performs a trial fetch without changing the repository.
	DryRun bool

	// Force permits fetching when the destination lacks identity or basis
	// state that would otherwise be required.
	Force bool

	// Quiet suppresses summary output.
	Quiet bool
}

// Run runs the fetch action.
func (action *Fetch) Run(ctx context.Context) error {
	if action.DryRun && !action.Quiet {
		action.printf("(dry run)\n")
	}

	f, err := os.Open(action.IBundlePath)
	if err != nil {
		return fmt.Errorf("opening ibundle file %s: %w", action.IBundlePath, err)
	}
	defer f.Close()
	ib, lr, err := ibundle.Read(f)
	if err != nil {
		return fmt.Errorf("reading ibundle file %s: %w", action.IBundlePath, err)
	}

	repo, err := action.Repo(ctx)
	if err != nil {
		return err
	}
	bare, err := repo.IsBare()
	if err != nil {
		return err
	}
	if !bare {
		return fmt.Errorf("%w: cannot fetch into non-bare repository", ErrUnsupportedRepo)
	}
	store, err := action.Store(ctx)
	if err != nil {
		return err
	}

	curRefs, err := repo.References()
	if err != nil {
		return err
	}

	// Identity check.
	if repoID, ok := store.ReadID(); ok {
		if repoID != ib.RepoID {
			return fmt.Errorf("%w: repo_id %s != ibundle repo_id %s",
				ErrIdentityMismatch, lineio.Quote(repoID), lineio.Quote(ib.RepoID))
		}
	} else if len(curRefs) > 0 && !action.Force {
		return fmt.Errorf("%w: repo lacks repo_id and is non-empty; consider --force", ErrIdentityMismatch)
	}

	// Basis reconstruction.
	basisMeta, err := resolveBasis(&ib, store, action.Force)
	if err != nil {
		return err
	}
	ib.ApplyBasis(basisMeta)
	full := ib.FullORefs()

	if !action.Quiet {
		action.printf("read %s, seq_num=%d, %d refs\n",
			lineio.Quote(action.IBundlePath), ib.SeqNum, len(full))
	}

	// Prerequisite check: prereq commits, and targets of refs whose
	// objects are not in the embedded pack, must already be present.
	if err := checkPrereqs(ctx, repo.HasObject, ib, full); err != nil {
		return err
	}

	have := make(meta.ORefs, len(curRefs))
	for _, ref := range curRefs {
		have[ref.Name] = ref.OID
	}

	var toDelete []string
	for name := range have {
		if _, ok := full[name]; !ok {
			toDelete = append(toDelete, name)
		}
	}

	toMaterialize := make(meta.ORefs)
	for name, oid := range full {
		if name == "HEAD" {
			continue
		}
		if haveOID, ok := have[name]; !ok || haveOID != oid {
			toMaterialize[name] = oid
		}
	}

	// An object reachable only through HEAD would be skipped by the bundle
	// fetcher; bind it to a throwaway ref and delete that ref afterwards.
	if headOID, ok := full["HEAD"]; ok && ib.PackedNames["HEAD"] {
		reachable := false
		for name := range ib.PackedNames {
			if name != "HEAD" && full[name] == headOID {
				reachable = true
				break
			}
		}
		if !reachable {
			synthetic := "refs/heads/HEAD-" + headOID.String()
			toMaterialize[synthetic] = headOID
			toDelete = append(toDelete, synthetic)
		}
	}
	sort.Strings(toDelete)

	// Stage the synthetic bundle and hand it to the bundle fetcher.
	if err := action.fetchPack(ctx, ib, toMaterialize, lr.Remaining()); err != nil {
		return err
	}

	// The bundle fetcher added a pack behind go-git's back, and go-git keeps
	// the pack index it loaded during the prerequisite check; reopen the
	// repository so the fetched objects are visible.
	if !action.DryRun {
		action.repo = nil
		if repo, err = action.Repo(ctx); err != nil {
			return err
		}
	}

	if !action.DryRun {
		if err := store.WriteID(ib.RepoID); err != nil {
			return err
		}
	}

	var cur meta.Meta
	if action.DryRun {
		cur = meta.Meta{
			HeadRef:      ib.HeadRef,
			HeadDetached: ib.HeadDetached,
			ORefs:        full.Clone(),
			Commits:      make(meta.Commits),
		}
	} else {
		if err := adjustHead(repo, ib); err != nil {
			return err
		}
		for _, name := range toDelete {
			slog.DebugContext(ctx, "deleting ref", slog.String("name", lineio.Quote(name)))
			if err := repo.DeleteRef(name); err != nil {
				return err
			}
		}
		cur, err = meta.Current(repo)
		if err != nil {
			return err
		}
	}

	// Post-conditions: the repository must now match the ibundle's claims.
	if !cur.ORefs.Equal(full) {
		return fmt.Errorf("%w: final repository refs do not match those in ibundle", ErrConsistency)
	}
	if cur.HeadRef != ib.HeadRef || cur.HeadDetached != ib.HeadDetached {
		return fmt.Errorf("%w: repository HEAD (%s%s) does not match ibundle HEAD (%s%s)",
			ErrConsistency,
			lineio.Quote(cur.HeadRef), detachedSuffix(cur.HeadDetached),
			lineio.Quote(ib.HeadRef), detachedSuffix(ib.HeadDetached))
	}

	if !action.DryRun {
		if err := store.Write(ib.SeqNum, cur); err != nil {
			return err
		}
	}

	if !action.Quiet {
		action.printf("final state: %d refs, HEAD %s%s\n",
			len(cur.ORefs), lineio.Quote(cur.HeadRef), detachedSuffix(cur.HeadDetached))
	}
	return nil
}

// resolveBasis loads the basis snapshot the ibundle names, falling back per
// the standalone/force rules.
func resolveBasis(ib *ibundle.IBundle, store *meta.Store, force bool) (meta.Meta, error) {
	switch {
	case ib.BasisSeqNum == 0:
		return meta.New(), nil
	case store.Has(ib.BasisSeqNum):
		return store.Load(ib.BasisSeqNum)
	case !ib.Standalone:
		return meta.Meta{}, fmt.Errorf(
			"%w: repo missing basis_seq_num=%d and ibundle is not standalone; consider `create --standalone`",
			ErrBasisMissing, ib.BasisSeqNum)
	case !force:
		return meta.Meta{}, fmt.Errorf(
			"%w: repo missing basis_seq_num=%d, but ibundle is standalone; consider --force",
			ErrBasisMissing, ib.BasisSeqNum)
	default:
		return meta.New(), nil
	}
}

// checkPrereqs verifies the object store holds every prerequisite commit
// and every not-packed ref target.
func checkPrereqs(ctx context.Context, hasObject func(plumbing.Hash) bool, ib ibundle.IBundle, full meta.ORefs) error {
	missingCommits := 0
	for _, oid := range ib.Prereqs.OIDs() {
		if !hasObject(oid) {
			slog.DebugContext(ctx, "missing prerequisite commit",
				slog.String("oid", oid.String()), slog.String("comment", ib.Prereqs[oid]))
			missingCommits++
		}
	}
	missingRefs := 0
	for _, name := range full.Names() {
		if ib.PackedNames[name] {
			continue
		}
		if !hasObject(full[name]) {
			slog.DebugContext(ctx, "missing pre-existing ref target",
				slog.String("name", lineio.Quote(name)), slog.String("oid", full[name].String()))
			missingRefs++
		}
	}
	if missingCommits > 0 || missingRefs > 0 {
		return fmt.Errorf("%w: repo is missing %d prerequisite commits and %d pre-existing ref targets listed in ibundle",
			ErrPrereqMissing, missingCommits, missingRefs)
	}
	return nil
}

// fetchPack stages a temporary bundle (header plus the ibundle's embedded
// pack) and invokes the bundle fetcher on it.
func (action *Fetch) fetchPack(ctx context.Context, ib ibundle.IBundle, refs meta.ORefs, pack io.Reader) error {
	store, err := action.Store(ctx)
	if err != nil {
		return err
	}
	runner, err := action.Runner(ctx)
	if err != nil {
		return err
	}

	tmp, cleanup, err := store.TempFile("fetch-*.bundle")
	if err != nil {
		return err
	}
	defer cleanup()

	header := bundle.Header{Prereqs: ib.Prereqs, Refs: refs}
	if err := header.Write(tmp); err != nil {
		return fmt.Errorf("staging bundle header: %w", err)
	}
	if _, err := progress.Copy(ctx, tmp, pack, "pack"); err != nil {
		return fmt.Errorf("staging bundle pack: %w", err)
	}
	// Flush before the fetcher reads the file.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing staged bundle: %w", err)
	}

	return runner.FetchBundle(ctx, tmp.Name(), action.Quiet, action.DryRun)
}

// adjustHead applies the ibundle's HEAD state: empty leaves HEAD alone,
// detached parses the commit id, symbolic sets the target bytes.
func adjustHead(repo git.Repository, ib ibundle.IBundle) error {
	switch {
	case ib.HeadRef == "":
		return nil
	case ib.HeadDetached:
		oid, err := lineio.ParseOID(ib.HeadRef)
		if err != nil {
			return fmt.Errorf("parsing detached HEAD target: %w", err)
		}
		return repo.SetHeadDetached(oid)
	default:
		return repo.SetHead(ib.HeadRef)
	}
}

func detachedSuffix(detached bool) string {
	if detached {
		return ", detached"
	}
	return ""
}
