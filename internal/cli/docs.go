package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/act3-ai/git-ibundle/docs"
)

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       fmt.Sprintf("docs [%s]", strings.Join(docs.Topics(), "|")),
		Short:     "Print embedded documentation",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: docs.Topics(),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := docs.Topics()[0]
			if len(args) > 0 {
				topic = args[0]
			}
			if !slices.Contains(docs.Topics(), topic) {
				return fmt.Errorf("unknown documentation topic %q", topic)
			}
			data, err := docs.GeneralDocumentation.ReadFile(topic + ".md")
			if err != nil {
				return fmt.Errorf("reading embedded documentation: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	return cmd
}
