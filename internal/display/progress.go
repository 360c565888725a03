package display

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress is an indeterminate spinner counting handled items. A nil or
// disabled Progress ignores every call, so callers need no TTY checks.
// Methods are goroutine-safe.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress returns a spinner writing to w, or a disabled Progress when
// enabled is false.
func NewProgress(w io.Writer, description string, enabled bool) *Progress {
	if !enabled {
		return &Progress{}
	}
	return &Progress{bar: progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)}
}

// Add advances the counter by one.
func (p *Progress) Add() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

// Finish clears the spinner.
func (p *Progress) Finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
