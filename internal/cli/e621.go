package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/backmassage/tagsmith/internal/check"
	"github.com/backmassage/tagsmith/internal/config"
	"github.com/backmassage/tagsmith/internal/record"
)

func newE621Cmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "e621 <file.json|dir>",
		Short: "Format e621 post records into captions",
		Long: `Reads one e621 post record, or every *.json record under a directory, and
writes <url stem>.txt next to each record. Records without post.file.url are
ignored; records left with only a rating after filtering are not written.

Template placeholders: {rating} {artists} {characters} {species} {copyright}
{general} {meta}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			fi, err := os.Stat(target)
			if err != nil {
				return fmt.Errorf("%w: %s", check.ErrInputNotFound, target)
			}
			dir := target
			if !fi.IsDir() {
				dir = filepath.Dir(target)
			}

			done, err := a.setup(cmd, dir)
			if err != nil {
				return err
			}
			defer done()

			if err := check.Preflight(&a.cfg); err != nil {
				a.log.Error("%v", err)
				return err
			}

			proc := record.NewProcessor(&a.cfg, a.log)
			if fi.IsDir() {
				_, err := proc.RunBatch(cmd.Context(), dir, a.cfg.Concat.Workers)
				return err
			}

			res, err := proc.ProcessFile(target)
			if err != nil {
				a.log.Error("%v", err)
				return err
			}
			switch res.Status {
			case record.StatusWritten:
				a.log.Success("Wrote %s", res.Output)
			case record.StatusSuppressed:
				a.log.Warn("No tags left after filtering; nothing written")
			case record.StatusNoURL:
				a.log.Warn("Record has no post.file.url; nothing written")
			}
			return nil
		},
	}
	config.RegisterRecord(cmd.Flags(), &a.flags)
	cmd.Flags().IntVarP(&a.flags.Workers, "workers", "w", 0, "Concurrent records when given a directory (default: number of CPUs)")
	return cmd
}
