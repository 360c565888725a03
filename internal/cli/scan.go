package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/backmassage/tagsmith/internal/check"
	"github.com/backmassage/tagsmith/internal/config"
	"github.com/backmassage/tagsmith/internal/pipeline"
)

var errCheckFailed = errors.New("configuration check failed")

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Report complete, incomplete and duplicate item groups without writing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := a.setup(cmd, args[0])
			if err != nil {
				return err
			}
			defer done()

			a.cfg.DryRun = true
			if err := check.Preflight(&a.cfg); err != nil {
				a.log.Error("%v", err)
				return err
			}
			r, err := pipeline.Scan(cmd.Context(), &a.cfg, a.log)
			pipeline.PrintReport(cmd.OutOrStdout(), r)
			return err
		},
	}
	config.RegisterConcat(cmd.Flags(), &a.flags)
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Show the effective configuration and validate the input directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			done, err := a.setup(cmd, input)
			if err != nil {
				return err
			}
			defer done()

			if !check.RunCheck(&a.cfg, a.log) {
				return errCheckFailed
			}
			return nil
		},
	}
	config.RegisterConcat(cmd.Flags(), &a.flags)
	config.RegisterRecord(cmd.Flags(), &a.flags)
	return cmd
}
