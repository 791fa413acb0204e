package cli

import (
	"github.com/spf13/cobra"

	"github.com/act3-ai/git-ibundle/internal/actions"
)

func newStatusCmd(version string) *cobra.Command {
	action := &actions.Status{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			action.Tool = actions.NewTool(version, ".", cmd.OutOrStdout(), configFiles())
			return action.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&action.Long, "long", false, "provide longer status")

	return cmd
}
