// Package cli builds the tagsmith command tree.
//
// Every command resolves its configuration the same way: built-in defaults,
// then the YAML file named by --config, then TAGSMITH_* environment variables
// (after loading --env-file), then the flags given on the command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/backmassage/tagsmith/internal/config"
	"github.com/backmassage/tagsmith/internal/display"
	"github.com/backmassage/tagsmith/internal/logging"
)

// app carries flag storage and per-invocation state shared by commands.
type app struct {
	version string
	flags   config.Flags
	cfg     config.Config
	log     *logging.Logger
}

// NewRootCmd creates the root command.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "tagsmith",
		Short: "Build training captions from tag files and e621 records",
		Long: `tagsmith merges per-image tag and caption files into one caption per image,
and turns e621 post records into template-formatted captions.

Configuration is read from defaults, --config (YAML), TAGSMITH_* environment
variables (a .env file is loaded first) and flags, in increasing priority.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterGlobal(root.PersistentFlags(), &a.flags)

	root.AddCommand(
		newConcatCmd(a),
		newE621Cmd(a),
		newScanCmd(a),
		newCheckCmd(a),
		newProbsCmd(a),
		newReplaceCmd(a),
		newFixQuotesCmd(a),
		newStripExtCmd(a),
		newSplitCmd(a),
	)
	return root
}

// setup resolves the configuration for cmd, opens the logger and prints the
// banner. input, when non-empty, becomes cfg.InputDir. The returned func
// closes the logger.
func (a *app) setup(cmd *cobra.Command, input string) (func(), error) {
	cfg := config.DefaultConfig()

	if err := config.LoadDotEnv(a.flags.EnvFile); err != nil {
		return nil, err
	}
	if a.flags.ConfigFile != "" {
		if err := config.LoadFile(&cfg, a.flags.ConfigFile); err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.ApplyFlags(&cfg, cmd.Flags(), &a.flags); err != nil {
		return nil, err
	}
	if input != "" {
		cfg.InputDir = config.NormalizeDirArg(input)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	a.log = log

	display.PrintBanner(cmd.OutOrStdout(), a.version)
	if cfg.ConfigFile != "" {
		log.Debug("Loaded config %s", cfg.ConfigFile)
	}
	return func() { log.Close() }, nil
}
