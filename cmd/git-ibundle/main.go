// The git-ibundle command mirrors a Git repository offline through
// incremental bundle files.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/act3-ai/git-ibundle/cmd/git-ibundle/cli"
	"github.com/act3-ai/git-ibundle/internal/actions"
)

// version is overridden at build time.
var version = "devel"

// Exit statuses shared with scripts driving mirroring.
const (
	statusError       = 1
	statusEmptyBundle = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewCLI(version)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, actions.ErrRefusedEmpty) {
			os.Exit(statusEmptyBundle)
		}
		os.Exit(statusError)
	}
}
