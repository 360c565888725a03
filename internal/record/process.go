package record

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/backmassage/tagsmith/internal/config"
	"github.com/backmassage/tagsmith/internal/display"
	"github.com/backmassage/tagsmith/internal/fsio"
	"github.com/backmassage/tagsmith/internal/logging"
	"github.com/backmassage/tagsmith/internal/walk"
)

// Status is the outcome of processing one record.
type Status int

const (
	StatusWritten    Status = iota // caption written
	StatusDryRun                   // caption computed, not written
	StatusNoURL                    // no post.file.url; nothing to do
	StatusSuppressed               // empty or rating-only caption
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusDryRun:
		return "dry-run"
	case StatusNoURL:
		return "no url"
	case StatusSuppressed:
		return "suppressed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result describes what happened to one record.
type Result struct {
	Status  Status
	Output  string // caption path; empty for StatusNoURL
	Caption string
}

// Processor formats records and writes their captions.
type Processor struct {
	Formatter *Formatter
	DryRun    bool
	Log       *logging.Logger
}

// NewProcessor builds a Processor from cfg.
func NewProcessor(cfg *config.Config, log *logging.Logger) *Processor {
	return &Processor{Formatter: NewFormatter(cfg.Record), DryRun: cfg.DryRun, Log: log}
}

// ProcessData formats one JSON record read from inputPath and writes the
// caption to <dir of inputPath>/<url stem>.txt. A record without a URL is
// a no-op. Invalid JSON is reported as fsio.ErrUnreadable; a failed write
// as fsio.ErrWrite.
func (p *Processor) ProcessData(data []byte, inputPath string) (Result, error) {
	r, err := Parse(data)
	if errors.Is(err, ErrMalformed) {
		p.Log.Debug("Skip (%v): %s", err, filepath.Base(inputPath))
		return Result{Status: StatusNoURL}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", fsio.ErrUnreadable, inputPath, err)
	}

	stem := r.Stem()
	if stem == "" {
		p.Log.Debug("Skip (url has no file name): %s", filepath.Base(inputPath))
		return Result{Status: StatusNoURL}, nil
	}
	res := Result{Output: filepath.Join(filepath.Dir(inputPath), stem+".txt")}

	caption, ok := p.Formatter.Format(r)
	res.Caption = caption
	if !ok {
		p.Log.Debug("Skip (no tags after filtering): %s", filepath.Base(inputPath))
		res.Status = StatusSuppressed
		return res, nil
	}

	if p.DryRun {
		p.Log.Info("[DRY] Would write %s: %s", res.Output, display.Truncate(caption, 120))
		res.Status = StatusDryRun
		return res, nil
	}
	if err := fsio.WriteText(res.Output, caption); err != nil {
		return res, err
	}
	p.Log.Debug("Wrote %s", res.Output)
	res.Status = StatusWritten
	return res, nil
}

// ProcessFile reads path and calls ProcessData.
func (p *Processor) ProcessFile(path string) (Result, error) {
	data, err := fsio.ReadRaw(path)
	if err != nil {
		return Result{}, err
	}
	return p.ProcessData(data, path)
}

// BatchSummary counts record outcomes across a directory run.
type BatchSummary struct {
	Written    int
	Suppressed int
	NoURL      int
	Invalid    int
	Failed     int
}

// RunBatch processes every *.json file under root. Unreadable or invalid
// files are logged and counted; write failures are returned, joined.
func (p *Processor) RunBatch(ctx context.Context, root string, workers int) (BatchSummary, error) {
	var written, suppressed, noURL, invalid, failed atomic.Int64

	h := walk.HandlerFunc(func(_ context.Context, path string) error {
		res, err := p.ProcessFile(path)
		switch {
		case errors.Is(err, fsio.ErrWrite):
			p.Log.Error("Write failed: %v", err)
			failed.Add(1)
			return err
		case err != nil:
			p.Log.Warn("Skip %s: %v", filepath.Base(path), err)
			invalid.Add(1)
			return nil
		}
		switch res.Status {
		case StatusWritten, StatusDryRun:
			written.Add(1)
		case StatusSuppressed:
			suppressed.Add(1)
		case StatusNoURL:
			noURL.Add(1)
		}
		return nil
	})

	err := walk.Walk(ctx, root, walk.Options{Pattern: "**/*.json", Workers: workers}, h)
	sum := BatchSummary{
		Written:    int(written.Load()),
		Suppressed: int(suppressed.Load()),
		NoURL:      int(noURL.Load()),
		Invalid:    int(invalid.Load()),
		Failed:     int(failed.Load()),
	}

	verb := "written"
	if p.DryRun {
		verb = "would be written (dry run)"
	}
	p.Log.Info("Done: %s %s", display.Plural(sum.Written, "caption"), verb)
	if sum.Suppressed > 0 {
		p.Log.Info("  Suppressed (no tags after filtering): %d", sum.Suppressed)
	}
	if sum.NoURL > 0 {
		p.Log.Info("  Records without file url: %d", sum.NoURL)
	}
	if sum.Invalid > 0 {
		p.Log.Warn("  Unreadable or invalid JSON: %d", sum.Invalid)
	}
	if sum.Failed > 0 {
		p.Log.Error("  Write failures: %d", sum.Failed)
	}
	return sum, err
}
