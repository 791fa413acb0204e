package actions

import (
	"context"
	"fmt"
	"log/slog"
)

// Clean prunes recorded snapshots, keeping the largest sequence numbers.
// The repo identity file is never removed.
type Clean struct {
	*Tool

	// Keep is the number of sequence numbers to retain when KeepSet;
	// otherwise the configured default applies.
	Keep    int
	KeepSet bool
}

// Run runs the clean action.
func (action *Clean) Run(ctx context.Context) error {
	store, err := action.Store(ctx)
	if err != nil {
		return err
	}
	if _, ok := store.ReadID(); !ok {
		return fmt.Errorf("missing repo_id; no sequence numbers to clean")
	}

	keep := action.Keep
	if !action.KeepSet {
		cfg, err := action.GetConfig(ctx)
		if err != nil {
			return err
		}
		keep = cfg.Keep
	}
	if keep < 0 {
		return fmt.Errorf("invalid --keep %d", keep)
	}

	seqNums, err := store.SeqNums()
	if err != nil {
		return err
	}
	if len(seqNums) <= keep {
		action.printf("have %d sequence numbers, keeping up to %d => nothing to clean\n",
			len(seqNums), keep)
		return nil
	}

	action.printf("have %d sequence numbers, keeping up to %d => removing %d\n",
		len(seqNums), keep, len(seqNums)-keep)
	for _, seq := range seqNums[keep:] {
		slog.DebugContext(ctx, "removing snapshot", slog.Uint64("seq_num", uint64(seq)))
		if err := store.Remove(seq); err != nil {
			return err
		}
	}
	return nil
}
