package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/tagsmith/internal/check"
	"github.com/backmassage/tagsmith/internal/config"
	"github.com/backmassage/tagsmith/internal/display"
	"github.com/backmassage/tagsmith/internal/pipeline"
)

func newConcatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "concat <dir>",
		Short: "Merge companion tag and caption files into one caption per image",
		Long: `Walks <dir> recursively. For every image it reads the companion files
<stem>.<ext> for each configured extension, merges their tags, appends the
caption text and writes <stem>.<output-ext>. Images missing any companion are
skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := a.setup(cmd, args[0])
			if err != nil {
				return err
			}
			defer done()

			if err := check.Preflight(&a.cfg); err != nil {
				a.log.Error("%v", err)
				return err
			}
			sum, err := pipeline.Run(cmd.Context(), &a.cfg, a.log)
			if pipeline.IsWriteFailure(err) {
				return fmt.Errorf("%s not written: %w", display.Plural(sum.Failed, "caption"), err)
			}
			return err
		},
	}
	config.RegisterConcat(cmd.Flags(), &a.flags)
	return cmd
}
