package cli

import (
	"github.com/spf13/cobra"

	"github.com/act3-ai/git-ibundle/internal/actions"
)

func newFetchCmd(version string) *cobra.Command {
	action := &actions.Fetch{}
	cmd := &cobra.Command{
		Use:   "fetch IBUNDLE_FILE",
		Short: "Fetch from an ibundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action.Tool = actions.NewTool(version, ".", cmd.OutOrStdout(), configFiles())
			action.IBundlePath = args[0]
			return action.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&action.DryRun, "dry-run", false, "perform a trial fetch without making changes to the repository")
	cmd.Flags().BoolVar(&action.Force, "force", false, "force fetch operation")
	cmd.Flags().BoolVarP(&action.Quiet, "quiet", "q", false, "run quietly")

	return cmd
}
