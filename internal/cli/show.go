package cli

import (
	"github.com/spf13/cobra"

	"github.com/act3-ai/git-ibundle/internal/actions"
)

func newShowCmd(version string) *cobra.Command {
	action := &actions.Show{}
	cmd := &cobra.Command{
		Use:   "show IBUNDLE_FILE",
		Short: "Inspect an ibundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action.Tool = actions.NewTool(version, ".", cmd.OutOrStdout(), configFiles())
			action.IBundlePath = args[0]
			return action.Run(cmd.Context())
		},
	}

	return cmd
}
