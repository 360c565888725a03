// Package walk is the directory-walk capability shared by every batch
// command. A single traversal matches paths against a doublestar glob and
// dispatches each match to a [Handler] on a bounded pool of goroutines.
//
// Handler errors are collected and returned together once the traversal has
// finished; one failing path never stops the others.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar"
	"golang.org/x/sync/errgroup"
)

// MatchAll matches every file below the root.
const MatchAll = "**/*"

// Handler processes one discovered path.
type Handler interface {
	Handle(ctx context.Context, path string) error
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(ctx context.Context, path string) error

// Handle calls f(ctx, path).
func (f HandlerFunc) Handle(ctx context.Context, path string) error { return f(ctx, path) }

// Options controls a traversal.
type Options struct {
	// Pattern is matched against the slash-separated path relative to the
	// root. Empty means MatchAll.
	Pattern string
	// Workers bounds concurrent handler calls. Values below 1 mean 1.
	Workers int
}

// Walk traverses root and calls h once per regular file whose relative path
// matches opts.Pattern. A symlink to a regular file counts as a file; symlinked
// directories are not descended into. It returns after every dispatched handler has
// finished. The returned error joins every handler error and every
// unreadable directory; it is nil when all paths were handled.
//
// A missing or non-directory root is returned immediately. Cancelling ctx
// stops further dispatch.
func Walk(ctx context.Context, root string, opts Options, h Handler) error {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = MatchAll
	}
	if _, err := doublestar.Match(pattern, "x"); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			record(err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		if !isRegular(path, d) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			record(err)
			return nil
		}
		ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel))
		if !ok {
			return nil
		}
		g.Go(func() error {
			if err := h.Handle(gctx, path); err != nil {
				record(fmt.Errorf("%s: %w", path, err))
			}
			return nil
		})
		return nil
	})
	waitErr := g.Wait()

	if walkErr != nil {
		return errors.Join(append([]error{walkErr}, errs...)...)
	}
	if waitErr != nil {
		errs = append(errs, waitErr)
	}
	return errors.Join(errs...)
}

// isRegular reports whether d is a regular file or a symlink resolving to one.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
