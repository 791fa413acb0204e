package actions

import (
	"context"
	"fmt"
	"os"

	"github.com/act3-ai/git-ibundle/internal/bundle"
	"github.com/act3-ai/git-ibundle/internal/ibundle"
	"github.com/act3-ai/git-ibundle/internal/lineio"
	"github.com/act3-ai/git-ibundle/internal/progress"
)

// ToBundle converts an ibundle into a plain git bundle usable with stock
// git. Delta ibundles require the local repository's basis snapshot to
// reconstruct the full ref set.
type ToBundle struct {
	*Tool

	// IBundlePath is the input file.
	IBundlePath string

	// BundlePath is the output bundle file.
	BundlePath string

	// Force permits conversion when the repository lacks identity state.
	Force bool

	// Quiet suppresses summary output.
	Quiet bool
}

// Run runs the to-bundle action.
func (action *ToBundle) Run(ctx context.Context) error {
	f, err := os.Open(action.IBundlePath)
	if err != nil {
		return fmt.Errorf("opening ibundle file %s: %w", action.IBundlePath, err)
	}
	defer f.Close()
	ib, lr, err := ibundle.Read(f)
	if err != nil {
		return fmt.Errorf("reading ibundle file %s: %w", action.IBundlePath, err)
	}

	if !ib.Standalone {
		// The full ref set only exists relative to the basis snapshot.
		store, err := action.Store(ctx)
		if err != nil {
			return err
		}
		if repoID, ok := store.ReadID(); ok && repoID != ib.RepoID {
			return fmt.Errorf("%w: repo_id %s != ibundle repo_id %s",
				ErrIdentityMismatch, lineio.Quote(repoID), lineio.Quote(ib.RepoID))
		} else if !ok && !action.Force {
			return fmt.Errorf("%w: repo lacks repo_id; consider --force", ErrIdentityMismatch)
		}
		basisMeta, err := resolveBasis(&ib, store, action.Force)
		if err != nil {
			return err
		}
		ib.ApplyBasis(basisMeta)
	}
	full := ib.FullORefs()

	if !action.Quiet {
		action.printf("read %s, seq_num=%d, %d refs\n",
			lineio.Quote(action.IBundlePath), ib.SeqNum, len(full))
	}

	out, err := os.Create(action.BundlePath)
	if err != nil {
		return fmt.Errorf("creating bundle file %s: %w", action.BundlePath, err)
	}
	defer out.Close()

	header := bundle.Header{Prereqs: ib.Prereqs, Refs: full}
	if err := header.Write(out); err != nil {
		return fmt.Errorf("writing bundle header: %w", err)
	}
	if _, err := progress.Copy(ctx, out, lr.Remaining(), "pack"); err != nil {
		return fmt.Errorf("copying pack into bundle: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing bundle file %s: %w", action.BundlePath, err)
	}

	if !action.Quiet {
		action.printf("wrote %s, %d refs, %d prereqs\n",
			lineio.Quote(action.BundlePath), len(full), len(ib.Prereqs))
		action.printf("To apply this bundle file in destination repository:\n")
		action.printf("  git fetch --force .../file.bundle \"*:*\"\n")
		if ib.HeadDetached {
			action.printf("  git update-ref --no-deref HEAD %s\n", ib.HeadRef)
		} else {
			action.printf("  git symbolic-ref HEAD %s\n", ib.HeadRef)
		}
	}
	return nil
}
