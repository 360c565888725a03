// Package group resolves item groups: an image plus the companion files that
// share its stem. It reads companions, selects the caption-like companion and
// merges the rest into one caption line.
package group

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/backmassage/tagsmith/internal/fsio"
)

// ErrMissingCompanion is matched by every [*MissingError].
var ErrMissingCompanion = errors.New("missing companion file")

// MissingError lists the companion extensions absent for one base file.
type MissingError struct {
	Base    string
	Missing []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Base, ErrMissingCompanion, strings.Join(e.Missing, ", "))
}

// Is reports ErrMissingCompanion as a match.
func (e *MissingError) Is(target error) bool { return target == ErrMissingCompanion }

// Companion is one companion file of a group.
type Companion struct {
	Ext  string
	Path string
}

// ItemGroup is a base file and its companions in configured order.
type ItemGroup struct {
	Base       string
	Dir        string
	Stem       string
	Companions []Companion
}

// Stem returns the file name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HasExtension reports whether path's extension, lowercased and without the
// dot, is one of exts.
func HasExtension(path string, exts []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// Resolve builds the group for basePath. Every extension in exts must exist
// as <stem>.<ext> next to the base file; otherwise a *MissingError naming
// all absent extensions is returned.
func Resolve(basePath string, exts []string) (*ItemGroup, error) {
	g := &ItemGroup{
		Base: basePath,
		Dir:  filepath.Dir(basePath),
		Stem: Stem(basePath),
	}
	var missing []string
	for _, ext := range exts {
		p := g.sibling(ext)
		if !fsio.Exists(p) {
			missing = append(missing, ext)
			continue
		}
		g.Companions = append(g.Companions, Companion{Ext: ext, Path: p})
	}
	if len(missing) > 0 {
		return nil, &MissingError{Base: basePath, Missing: missing}
	}
	return g, nil
}

// OutputPath returns <dir>/<stem>.<ext>.
func (g *ItemGroup) OutputPath(ext string) string {
	return g.sibling(ext)
}

func (g *ItemGroup) sibling(ext string) string {
	return filepath.Join(g.Dir, g.Stem+"."+ext)
}

// Extensions returns the companion extensions in order.
func (g *ItemGroup) Extensions() []string {
	out := make([]string, len(g.Companions))
	for i, c := range g.Companions {
		out[i] = c.Ext
	}
	return out
}

// ReadRaw returns the untrimmed bytes of each companion in order.
func (g *ItemGroup) ReadRaw() ([][]byte, error) {
	out := make([][]byte, 0, len(g.Companions))
	for _, c := range g.Companions {
		b, err := fsio.ReadRaw(c.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ReadText returns the trimmed UTF-8 content of each companion in order.
func (g *ItemGroup) ReadText() ([]string, error) {
	out := make([]string, 0, len(g.Companions))
	for _, c := range g.Companions {
		s, err := fsio.ReadText(c.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
