// Package cli exports the git-ibundle command.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/act3-ai/git-ibundle/internal/cli"
)

// NewCLI creates the base git-ibundle command.
func NewCLI(version string) *cobra.Command {
	return cli.NewCLI(version)
}
