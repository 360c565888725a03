package group

import (
	"strings"

	"github.com/backmassage/tagsmith/internal/tags"
)

// Caption-like extensions, in priority order.
var captionExtensions = []string{"caption", "florence"}

// CaptionIndex returns the index in exts of the free-text companion: the
// first of "caption" or "florence" present (in any case), else the last
// extension.
// It returns -1 for an empty list.
func CaptionIndex(exts []string) int {
	for _, want := range captionExtensions {
		for i, e := range exts {
			if strings.EqualFold(e, want) {
				return i
			}
		}
	}
	return len(exts) - 1
}

// Merge combines companion contents, ordered like exts, into one line. Every
// companion except the caption is split into tags and joined per the dedupe
// policy; the caption text is appended after the tags unchanged.
func Merge(exts, contents []string, sep string, dedupe bool) string {
	captionIdx := CaptionIndex(exts)

	categories := make([]tags.Category, 0, len(contents))
	caption := ""
	for i, content := range contents {
		if i == captionIdx {
			caption = content
			continue
		}
		categories = append(categories, tags.Category{Name: tags.CategoryDefault, Tags: tags.Split(content)})
	}

	merged := tags.Aggregate(categories, tags.Normalizer{}, false)
	return tags.AppendCaption(tags.Join(merged, sep, dedupe), caption, sep)
}
