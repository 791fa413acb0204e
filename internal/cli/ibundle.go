// Package cli defines CLI commands.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/act3-ai/go-common/pkg/config"
)

// configFiles returns the configuration search path.
func configFiles() []string {
	return config.EnvPathOr("IBUNDLE_CONFIG", config.DefaultConfigSearchPath("git-ibundle", "config.yaml"))
}

// NewCLI creates the base git-ibundle command.
func NewCLI(version string) *cobra.Command {
	var verbosity int

	// cmd represents the base command when called without any subcommands
	cmd := &cobra.Command{
		Use:          "git-ibundle",
		Short:        "Offline incremental mirroring of Git repositories via ibundle files.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelWarn
			switch {
			case verbosity >= 2:
				level = slog.LevelDebug
			case verbosity == 1:
				level = slog.LevelInfo
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	cmd.PersistentFlags().CountVarP(&verbosity, "verbosity", "v", "increase logging verbosity")

	cmd.AddCommand(
		newCreateCmd(version),
		newFetchCmd(version),
		newToBundleCmd(version),
		newShowCmd(version),
		newStatusCmd(version),
		newCleanCmd(version),
		newDocsCmd(),
	)

	return cmd
}
