package cli

import (
	"github.com/spf13/cobra"

	"github.com/act3-ai/git-ibundle/internal/actions"
	"github.com/act3-ai/git-ibundle/pkg/apis/git-ibundle.act3-ai.io/v1alpha1"
)

func newCleanCmd(version string) *cobra.Command {
	action := &actions.Clean{}
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Cleanup old sequence numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			action.Tool = actions.NewTool(version, ".", cmd.OutOrStdout(), configFiles())
			action.KeepSet = cmd.Flags().Changed("keep")
			return action.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&action.Keep, "keep", v1alpha1.DefaultKeep, "number of sequence numbers to retain")

	return cmd
}
