package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/backmassage/tagsmith/internal/check"
	"github.com/backmassage/tagsmith/internal/display"
	"github.com/backmassage/tagsmith/internal/record"
	"github.com/backmassage/tagsmith/internal/textutil"
	"github.com/backmassage/tagsmith/internal/walk"
)

// fileOp edits one file and reports whether anything changed.
type fileOp func(path string) (changed bool, err error)

// eachFile runs op on target itself when it is a file, or on every file
// under it matching pattern. Failures are logged; the joined error is
// returned once every file has been visited.
func (a *app) eachFile(ctx context.Context, target, pattern, verb string, op fileOp) error {
	var changed atomic.Int64
	h := walk.HandlerFunc(func(_ context.Context, path string) error {
		ok, err := op(path)
		if err != nil {
			a.log.Warn("%s: %v", filepath.Base(path), err)
			return err
		}
		if ok {
			changed.Add(1)
			if a.cfg.DryRun {
				a.log.Info("[DRY] Would update %s", path)
			} else {
				a.log.Debug("Updated %s", path)
			}
		}
		return nil
	})

	var err error
	if fi, statErr := os.Stat(target); statErr == nil && !fi.IsDir() {
		err = h.Handle(ctx, target)
	} else {
		err = walk.Walk(ctx, target, walk.Options{Pattern: pattern, Workers: a.cfg.Concat.Workers}, h)
	}
	a.log.Info("Done: %s %s", display.Plural(int(changed.Load()), "file"), verb)
	return err
}

// setupTarget resolves config for a file-or-directory argument and runs the
// preflight against the directory that will be written.
func (a *app) setupTarget(cmd *cobra.Command, target string) (func(), error) {
	fi, err := os.Stat(target)
	if err != nil {
		return nil, errors.Join(check.ErrInputNotFound, err)
	}
	dir := target
	if !fi.IsDir() {
		dir = filepath.Dir(target)
	}
	done, err := a.setup(cmd, dir)
	if err != nil {
		return nil, err
	}
	if err := check.Preflight(&a.cfg); err != nil {
		a.log.Error("%v", err)
		done()
		return nil, err
	}
	return done, nil
}

func newProbsCmd(a *app) *cobra.Command {
	threshold := record.DefaultThreshold
	cmd := &cobra.Command{
		Use:   "probs <file.json|dir>",
		Short: "Convert tag-probability JSON into tag captions",
		Long: `Reads {"tag": probability} JSON files and writes <stem>.txt with the tags at
or above --threshold, most probable first, parentheses escaped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := a.setupTarget(cmd, args[0])
			if err != nil {
				return err
			}
			defer done()

			return a.eachFile(cmd.Context(), args[0], "**/*.json", "converted", func(path string) (bool, error) {
				out, err := record.ConvertProbabilitiesFile(path, threshold, a.cfg.DryRun)
				return out != "" && err == nil, err
			})
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", record.DefaultThreshold, "Minimum probability for a tag to be kept")
	return cmd
}

func newReplaceCmd(a *app) *cobra.Command {
	var search, replace, pattern string
	cmd := &cobra.Command{
		Use:   "replace <file|dir> --search S [--replace R]",
		Short: "Replace text in caption files",
		Long: `Replaces every occurrence of --search with --replace. With an empty
--replace the result also has its whitespace collapsed. Files are only
rewritten when their content changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := a.setupTarget(cmd, args[0])
			if err != nil {
				return err
			}
			defer done()

			if search == "" {
				a.log.Warn("Empty --search; nothing to do")
				return nil
			}
			return a.eachFile(cmd.Context(), args[0], pattern, "changed", func(path string) (bool, error) {
				return textutil.ReplaceInFile(path, search, replace, a.cfg.DryRun)
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Text to find")
	cmd.Flags().StringVar(&replace, "replace", "", "Replacement text (empty removes and collapses whitespace)")
	cmd.Flags().StringVarP(&pattern, "glob", "g", "**/*.txt", "Files to edit, relative to <dir>")
	return cmd
}

func newFixQuotesCmd(a *app) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "fix-quotes <file|dir>",
		Short: "Replace typographic quotes with ASCII quotes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := a.setupTarget(cmd, args[0])
			if err != nil {
				return err
			}
			defer done()

			return a.eachFile(cmd.Context(), args[0], pattern, "changed", func(path string) (bool, error) {
				return textutil.FixQuotesInFile(path, a.cfg.DryRun)
			})
		},
	}
	cmd.Flags().StringVarP(&pattern, "glob", "g", "**/*.txt", "Files to edit, relative to <dir>")
	return cmd
}

func newStripExtCmd(a *app) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "strip-ext <file|dir>",
		Short: "Rename x.jpg.txt style files to x.txt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := a.setupTarget(cmd, args[0])
			if err != nil {
				return err
			}
			defer done()

			return a.eachFile(cmd.Context(), args[0], pattern, "renamed", func(path string) (bool, error) {
				newPath, renamed, err := textutil.StripImageExtensionFile(path, a.cfg.DryRun)
				if renamed {
					a.log.Debug("%s -> %s", filepath.Base(path), filepath.Base(newPath))
				}
				return renamed, err
			})
		},
	}
	cmd.Flags().StringVarP(&pattern, "glob", "g", "**/*", "Files to consider, relative to <dir>")
	return cmd
}

func newSplitCmd(a *app) *cobra.Command {
	var pattern, tagExt, captionExt string
	cmd := &cobra.Command{
		Use:   "split <file|dir>",
		Short: "Split merged captions back into tag and sentence files",
		Long: `Reads captions of the form "tag1, tag2., A sentence." and writes the tags
to <stem>.<tags-ext> and the sentence to <stem>.<caption-ext>. Existing files
are never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := a.setupTarget(cmd, args[0])
			if err != nil {
				return err
			}
			defer done()

			return a.eachFile(cmd.Context(), args[0], pattern, "split", func(path string) (bool, error) {
				targets, err := textutil.SplitFile(path, tagExt, captionExt, a.cfg.DryRun)
				for _, t := range targets {
					a.log.Debug("%s -> %s", filepath.Base(path), filepath.Base(t))
				}
				return len(targets) > 0, err
			})
		},
	}
	cmd.Flags().StringVarP(&pattern, "glob", "g", "**/*.txt", "Files to split, relative to <dir>")
	cmd.Flags().StringVar(&tagExt, "tags-ext", "tags", "Extension for the tag file")
	cmd.Flags().StringVar(&captionExt, "caption-ext", "caption", "Extension for the sentence file")
	return cmd
}
