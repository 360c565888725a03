package tags

import (
	"sort"
	"strings"
)

// Split breaks comma-separated content into trimmed tags, dropping empty
// entries.
func Split(content string) []string {
	parts := strings.Split(content, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Unique returns the distinct entries of tags sorted ascending.
// Comparison is exact and case-sensitive.
func Unique(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Join joins tags with sep. With dedupe set the result is the sorted set of
// distinct tags; otherwise source order and duplicates are kept.
func Join(tags []string, sep string, dedupe bool) string {
	if dedupe {
		tags = Unique(tags)
	}
	return strings.Join(tags, sep)
}

// AppendCaption appends a free-text caption after the joined tag portion.
// When either side is empty the other is returned verbatim.
func AppendCaption(tagPart, caption, sep string) string {
	switch {
	case tagPart == "":
		return caption
	case caption == "":
		return tagPart
	default:
		return tagPart + sep + caption
	}
}
