package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/backmassage/tagsmith/internal/config"
	"github.com/backmassage/tagsmith/internal/dedupe"
	"github.com/backmassage/tagsmith/internal/display"
	"github.com/backmassage/tagsmith/internal/fsio"
	"github.com/backmassage/tagsmith/internal/group"
	"github.com/backmassage/tagsmith/internal/logging"
	"github.com/backmassage/tagsmith/internal/term"
	"github.com/backmassage/tagsmith/internal/textutil"
	"github.com/backmassage/tagsmith/internal/walk"
)

// Run is the directory concatenator entry point. It walks cfg.InputDir,
// processes every base file concurrently and returns the final counters.
// Per-group problems are logged and skipped; the returned error joins the
// write failures (and a traversal failure, if any).
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (Summary, error) {
	c := &concatenator{
		cfg:      cfg,
		log:      log,
		progress: display.NewProgress(os.Stderr, "Merging", term.IsTerminal(os.Stderr) && !cfg.Verbose),
	}
	if cfg.Concat.DedupeFiles {
		c.index = dedupe.NewIndex()
	}

	logBatchHeader(cfg, log)

	err := walk.Walk(ctx, cfg.InputDir, walk.Options{Workers: cfg.Concat.Workers}, c)
	c.progress.Finish()

	sum := c.stats.Snapshot()
	if c.index != nil {
		sum.Distinct = c.index.Len()
	}
	logSummary(cfg, log, sum)
	return sum, err
}

// concatenator is the per-path walk handler.
type concatenator struct {
	cfg      *config.Config
	log      *logging.Logger
	index    *dedupe.Index // nil unless dedupe-files is on
	stats    RunStats
	progress *display.Progress
}

// Handle processes one discovered path. Only base files are considered;
// everything else is ignored. A non-nil return means the group's output
// could not be written.
func (c *concatenator) Handle(_ context.Context, path string) error {
	cc := &c.cfg.Concat
	if !group.HasExtension(path, cc.BaseExtensions) {
		return nil
	}
	c.stats.Discovered.Add(1)
	defer c.progress.Add()

	if c.index != nil && c.isDuplicate(path) {
		return nil
	}

	g, err := group.Resolve(path, cc.Extensions)
	if err != nil {
		c.log.Warn("Skip (%v)", err)
		c.stats.Skipped.Add(1)
		return nil
	}

	out := g.OutputPath(cc.OutputExtension)
	if cc.SkipExisting && textutil.CaptionExists(out) {
		c.log.Debug("Skip (output exists): %s", filepath.Base(out))
		c.stats.Existing.Add(1)
		return nil
	}

	contents, err := g.ReadText()
	if err != nil {
		c.log.Warn("Skip %s: %v", filepath.Base(path), err)
		c.stats.Skipped.Add(1)
		return nil
	}
	exts := g.Extensions()
	if i := group.CaptionIndex(exts); i >= 0 {
		contents[i] = textutil.CaptionText(contents[i])
	}

	merged := group.Merge(exts, contents, cc.TagSeparator, cc.DedupeTags)

	if c.cfg.DryRun {
		c.log.Info("[DRY] Would write %s: %s", out, display.Truncate(merged, 120))
		c.stats.Processed.Add(1)
		return nil
	}

	if err := fsio.WriteText(out, merged); err != nil {
		c.log.Error("Write failed: %v", err)
		c.stats.Failed.Add(1)
		return err
	}
	c.log.Debug("Wrote %s", out)
	c.stats.Processed.Add(1)
	return nil
}

// isDuplicate reports whether the group at path has the same companion
// content as a group claimed earlier. Incomplete or unreadable groups are
// not duplicates; the normal path reports them.
func (c *concatenator) isDuplicate(path string) bool {
	g, err := group.Resolve(path, c.cfg.Concat.Extensions)
	if err != nil {
		return false
	}
	raw, err := g.ReadRaw()
	if err != nil {
		return false
	}

	owner, first := c.index.Claim(dedupe.Digest(raw), path)
	if first {
		return false
	}
	c.log.Debug("Skip (duplicate of %s): %s", filepath.Base(owner), filepath.Base(path))
	c.stats.Duplicates.Add(1)
	return true
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger) {
	cc := &cfg.Concat
	log.Info("Input: %s", cfg.InputDir)
	log.Info("Images: %v", cc.BaseExtensions)
	log.Info("Companions: %v -> .%s", cc.Extensions, cc.OutputExtension)
	if cc.DedupeTags {
		log.Info("Tags: deduplicated, sorted")
	} else {
		log.Info("Tags: source order, duplicates kept")
	}
	if cc.DedupeFiles {
		log.Info("Duplicate groups: skipped by content digest")
	}
	if cfg.DryRun {
		log.Warn("Dry run: nothing will be written")
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, s Summary) {
	log.Info("==============================")
	verb := "processed"
	if cfg.DryRun {
		verb = "would be written (dry run)"
	}
	log.Info("Done: %s %s", display.Plural(s.Processed, "group"), verb)
	if cfg.Concat.DedupeFiles {
		log.Info("  Skipped duplicates: %d (%s)", s.Duplicates, display.Plural(s.Distinct, "distinct content"))
	}
	if s.Existing > 0 {
		log.Info("  Kept existing outputs: %d", s.Existing)
	}
	if s.Skipped > 0 {
		log.Warn("  Skipped incomplete or unreadable: %d", s.Skipped)
	}
	if s.Failed > 0 {
		log.Error("  Write failures: %d", s.Failed)
	} else if s.Processed > 0 {
		log.Success("  %d of %d images captioned", s.Processed, s.Discovered)
	}
}

// IsWriteFailure reports whether err contains a write failure.
func IsWriteFailure(err error) bool {
	return errors.Is(err, fsio.ErrWrite)
}
