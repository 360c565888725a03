// Package textutil holds small caption-file maintenance helpers: whitespace
// and quote normalization, in-place replacement, image-extension cleanup of
// caption file names, caption extraction from JSON and splitting merged
// captions back into tag and sentence files.
package textutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/tagsmith/internal/fsio"
	"github.com/backmassage/tagsmith/internal/tags"
)

// Errors.
var (
	ErrNoCaption    = errors.New("no caption in JSON")
	ErrTargetExists = errors.New("target file already exists")
)

// CollapseWhitespace trims s and replaces every whitespace run with a single
// space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var quoteReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‘", "'",
	"’", "'",
)

// FixQuotes replaces typographic quotes with their ASCII forms.
func FixQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

// SplitContent splits "t1, t2., a sentence" into its tags and the sentence
// after the first "., ". Content without the marker is all tags.
func SplitContent(content string) (tagList []string, sentence string) {
	head, tail, _ := strings.Cut(content, "., ")
	return tags.Split(head), strings.TrimSpace(tail)
}

// JSONToText extracts a caption from a JSON string or from the "caption"
// field of a JSON object.
func JSONToText(data []byte) (string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case map[string]any:
		if s, ok := x["caption"].(string); ok {
			return s, nil
		}
		return "", ErrNoCaption
	default:
		return "", fmt.Errorf("%w: unsupported JSON type %T", ErrNoCaption, v)
	}
}

// CaptionText returns the caption held in s. Content that parses as a JSON
// string, or as an object with a "caption" field, is unwrapped; anything
// else is plain text and returned unchanged.
func CaptionText(s string) string {
	if s == "" || (s[0] != '"' && s[0] != '{') {
		return s
	}
	text, err := JSONToText([]byte(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(text)
}

// CaptionExists reports whether path is a readable file with non-blank
// content.
func CaptionExists(path string) bool {
	s, err := fsio.ReadText(path)
	return err == nil && s != ""
}

// ReplaceInFile replaces every occurrence of search in the file. When
// replace is empty the result also has its whitespace collapsed. The file is
// written only when its content changes, and never in dry-run mode. An
// empty search is a no-op.
func ReplaceInFile(path, search, replace string, dryRun bool) (changed bool, err error) {
	if search == "" {
		return false, nil
	}
	return rewrite(path, dryRun, func(s string) string {
		out := strings.ReplaceAll(s, search, replace)
		if replace == "" {
			out = CollapseWhitespace(out)
		}
		return out
	})
}

// FixQuotesInFile applies FixQuotes to the file, writing only on change.
func FixQuotesInFile(path string, dryRun bool) (changed bool, err error) {
	return rewrite(path, dryRun, FixQuotes)
}

func rewrite(path string, dryRun bool, fn func(string) string) (bool, error) {
	b, err := fsio.ReadRaw(path)
	if err != nil {
		return false, err
	}
	content := string(b)
	next := fn(content)
	if next == content {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	return true, fsio.WriteText(path, next)
}

// imageExtensions may appear between a stem and the real extension, as in
// "x.jpg.txt".
var imageExtensions = map[string]bool{"jpg": true, "jpeg": true, "png": true}

// StripImageExtension removes image extensions sitting between the stem and
// the final extension of name: "x.jpg.txt" gives "x.txt". ok is false when
// nothing would change.
func StripImageExtension(name string) (stripped string, ok bool) {
	parts := strings.Split(name, ".")
	if len(parts) < 3 {
		return name, false
	}
	kept := []string{parts[0]}
	for _, p := range parts[1 : len(parts)-1] {
		if imageExtensions[strings.ToLower(p)] {
			ok = true
			continue
		}
		kept = append(kept, p)
	}
	if !ok {
		return name, false
	}
	kept = append(kept, parts[len(parts)-1])
	return strings.Join(kept, "."), true
}

// StripImageExtensionFile renames path per StripImageExtension and returns
// the new path. It refuses to replace an existing file. renamed is false
// when the name needs no change.
func StripImageExtensionFile(path string, dryRun bool) (newPath string, renamed bool, err error) {
	name, ok := StripImageExtension(filepath.Base(path))
	if !ok {
		return path, false, nil
	}
	newPath = filepath.Join(filepath.Dir(path), name)
	if _, err := os.Lstat(newPath); err == nil {
		return newPath, false, fmt.Errorf("%w: %s", ErrTargetExists, newPath)
	}
	if dryRun {
		return newPath, true, nil
	}
	if err := os.Rename(path, newPath); err != nil {
		return newPath, false, fmt.Errorf("%w: %s: %w", fsio.ErrWrite, newPath, err)
	}
	return newPath, true, nil
}

// SplitFile undoes a merged caption: the tags of path ("t1, t2., sentence")
// go to <stem>.<tagExt> joined with ", ", and the sentence, when there is
// one, goes to <stem>.<captionExt>. No target may already exist; nothing is
// written unless every target is free. It returns the target paths.
func SplitFile(path, tagExt, captionExt string, dryRun bool) ([]string, error) {
	content, err := fsio.ReadText(path)
	if err != nil {
		return nil, err
	}
	tagList, sentence := SplitContent(content)
	if len(tagList) == 0 && sentence == "" {
		return nil, nil
	}

	base := filepath.Base(path)
	stem := filepath.Join(filepath.Dir(path), strings.TrimSuffix(base, filepath.Ext(base)))
	outputs := map[string]string{stem + "." + tagExt: strings.Join(tagList, ", ")}
	if sentence != "" {
		outputs[stem+"."+captionExt] = sentence
	}

	targets := make([]string, 0, len(outputs))
	for target := range outputs {
		if fsio.Exists(target) {
			return nil, fmt.Errorf("%w: %s", ErrTargetExists, target)
		}
		targets = append(targets, target)
	}
	sort.Strings(targets)
	if dryRun {
		return targets, nil
	}
	for _, target := range targets {
		if err := fsio.WriteText(target, outputs[target]); err != nil {
			return nil, err
		}
	}
	return targets, nil
}
