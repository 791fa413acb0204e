package cli

import (
	"github.com/spf13/cobra"

	"github.com/act3-ai/git-ibundle/internal/actions"
	"github.com/act3-ai/git-ibundle/internal/meta"
)

func newCreateCmd(version string) *cobra.Command {
	var basis uint64

	action := &actions.Create{}
	cmd := &cobra.Command{
		Use:   "create IBUNDLE_FILE",
		Short: "Create an ibundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action.Tool = actions.NewTool(version, ".", cmd.OutOrStdout(), configFiles())
			action.IBundlePath = args[0]
			action.Basis = meta.SeqNum(basis)
			action.BasisSet = cmd.Flags().Changed("basis")
			return action.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&action.Standalone, "standalone", false, "force ibundle to be standalone")
	cmd.Flags().Uint64Var(&basis, "basis", 0, "choose alternate basis sequence number")
	cmd.Flags().BoolVar(&action.BasisCurrent, "basis-current", false,
		"use the ibundle's own snapshot as its basis (implies --standalone and --allow-empty)")
	cmd.Flags().BoolVar(&action.AllowEmpty, "allow-empty", false, "allow creation of an empty ibundle")
	cmd.Flags().BoolVarP(&action.Quiet, "quiet", "q", false, "run quietly")
	cmd.MarkFlagsMutuallyExclusive("basis", "basis-current")

	return cmd
}
