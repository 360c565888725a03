package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/backmassage/tagsmith/internal/config"
	"github.com/backmassage/tagsmith/internal/dedupe"
	"github.com/backmassage/tagsmith/internal/display"
	"github.com/backmassage/tagsmith/internal/group"
	"github.com/backmassage/tagsmith/internal/logging"
	"github.com/backmassage/tagsmith/internal/term"
	"github.com/backmassage/tagsmith/internal/textutil"
	"github.com/backmassage/tagsmith/internal/walk"
)

// GroupRow is one base file in a scan report.
type GroupRow struct {
	Base    string
	Missing []string // companion extensions not found
	Digest  string   // content digest; empty when incomplete or unreadable
	Bytes   int64    // total companion bytes
	Output  bool     // output file exists with non-blank content
}

// Complete reports whether every companion was found and read.
func (r GroupRow) Complete() bool { return len(r.Missing) == 0 && r.Digest != "" }

// Report is the read-only inventory produced by [Scan].
type Report struct {
	Root       string
	Groups     []GroupRow // sorted by Base
	Duplicates [][]string // base paths sharing a digest, each set sorted
}

// TotalBytes returns the companion bytes summed over all groups.
func (r *Report) TotalBytes() int64 {
	var n int64
	for _, g := range r.Groups {
		n += g.Bytes
	}
	return n
}

// Counts returns the number of complete and incomplete groups.
func (r *Report) Counts() (complete, incomplete int) {
	for _, g := range r.Groups {
		if g.Complete() {
			complete++
		} else {
			incomplete++
		}
	}
	return complete, incomplete
}

// Scan inventories cfg.InputDir without writing anything: every base file,
// which companions it lacks, and which complete groups share content. It
// uses the same group resolution and digest as [Run].
func Scan(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Report, error) {
	cc := &cfg.Concat
	var (
		mu   sync.Mutex
		rows []GroupRow
	)
	h := walk.HandlerFunc(func(_ context.Context, path string) error {
		if !group.HasExtension(path, cc.BaseExtensions) {
			return nil
		}
		row := scanGroup(path, cc)
		mu.Lock()
		rows = append(rows, row)
		mu.Unlock()
		return nil
	})

	err := walk.Walk(ctx, cfg.InputDir, walk.Options{Workers: cc.Workers}, h)
	if err != nil {
		log.Warn("Scan incomplete: %v", err)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Base < rows[j].Base })
	return &Report{Root: cfg.InputDir, Groups: rows, Duplicates: duplicateSets(rows)}, err
}

func scanGroup(path string, cc *config.ConcatConfig) GroupRow {
	row := GroupRow{Base: path}
	g, err := group.Resolve(path, cc.Extensions)
	if err != nil {
		var me *group.MissingError
		if errors.As(err, &me) {
			row.Missing = me.Missing
		}
		return row
	}
	row.Output = textutil.CaptionExists(g.OutputPath(cc.OutputExtension))

	raw, err := g.ReadRaw()
	if err != nil {
		return row
	}
	for _, b := range raw {
		row.Bytes += int64(len(b))
	}
	row.Digest = dedupe.Digest(raw)
	return row
}

func duplicateSets(rows []GroupRow) [][]string {
	byDigest := make(map[string][]string)
	for _, r := range rows {
		if r.Digest != "" {
			byDigest[r.Digest] = append(byDigest[r.Digest], r.Base)
		}
	}
	var sets [][]string
	for _, bases := range byDigest {
		if len(bases) > 1 {
			sort.Strings(bases)
			sets = append(sets, bases)
		}
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i][0] < sets[j][0] })
	return sets
}

// PrintReport writes the scan table and duplicate sets to w.
func PrintReport(w io.Writer, r *Report) {
	nameW := len("Image")
	for _, g := range r.Groups {
		if n := len(relName(r.Root, g.Base)); n > nameW {
			nameW = n
		}
	}
	if nameW > 50 {
		nameW = 50
	}

	header := fmt.Sprintf("  %-*s  %-10s  %10s  %-10s  %s", nameW, "Image", "Companions", "Size", "Output", "Missing")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "  "+strings.Repeat("─", len(header)-2))

	for _, g := range r.Groups {
		name := display.Truncate(relName(r.Root, g.Base), nameW)
		status := "ok"
		if !g.Complete() {
			status = "incomplete"
		}
		output := "-"
		if g.Output {
			output = "exists"
		}
		// Pad before coloring so escape bytes do not skew alignment.
		statusCell := fmt.Sprintf("%-10s", status)
		if !g.Complete() {
			statusCell = term.Yellow + statusCell + term.NC
		}
		size := "-"
		if g.Complete() {
			size = display.FormatBytes(g.Bytes)
		}
		fmt.Fprintf(w, "  %-*s  %s  %10s  %-10s  %s\n", nameW, name, statusCell, size, output, strings.Join(g.Missing, ", "))
	}
	fmt.Fprintln(w)

	complete, incomplete := r.Counts()
	fmt.Fprintf(w, "%s complete, %s incomplete, %s of companion text\n",
		display.Plural(complete, "group"), display.Plural(incomplete, "group"), display.FormatBytes(r.TotalBytes()))

	for _, set := range r.Duplicates {
		names := make([]string, len(set))
		for i, b := range set {
			names[i] = relName(r.Root, b)
		}
		fmt.Fprintf(w, "%sDuplicate content:%s %s\n", term.Red, term.NC, strings.Join(names, ", "))
	}
}

func relName(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
