package cli

import (
	"github.com/spf13/cobra"

	"github.com/act3-ai/git-ibundle/internal/actions"
)

func newToBundleCmd(version string) *cobra.Command {
	action := &actions.ToBundle{}
	cmd := &cobra.Command{
		Use:   "to-bundle IBUNDLE_FILE BUNDLE_FILE",
		Short: "Convert an ibundle into a bundle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action.Tool = actions.NewTool(version, ".", cmd.OutOrStdout(), configFiles())
			action.IBundlePath = args[0]
			action.BundlePath = args[1]
			return action.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&action.Force, "force", false, "force conversion operation")
	cmd.Flags().BoolVarP(&action.Quiet, "quiet", "q", false, "run quietly")

	return cmd
}
