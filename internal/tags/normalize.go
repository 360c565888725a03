package tags

import (
	"regexp"
	"strings"
)

// CategoryArtist is the only category with its own display rule.
const CategoryArtist = "artist"

// CategoryDefault is used for undifferentiated tag files.
const CategoryDefault = "default"

// artistMarker is the disambiguation suffix e621 appends to some artist tags.
const artistMarker = " (artist)"

// Tags matching any of these are dropped when filtering is enabled.
var ignorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^conditional_dnp$`),
	regexp.MustCompile(`^\d{4}$`),   // year
	regexp.MustCompile(`^\d+:\d+$`), // aspect ratio
}

// ShouldIgnore reports whether tag matches one of the ignore patterns.
// Matching is case-sensitive and applies to the raw tag.
func ShouldIgnore(tag string) bool {
	for _, re := range ignorePatterns {
		if re.MatchString(tag) {
			return true
		}
	}
	return false
}

// Normalizer produces display strings from raw tags.
type Normalizer struct {
	ArtistPrefix       string
	ArtistSuffix       string
	ReplaceUnderscores bool
}

// Normalize returns the display form of tag for category. Artist tags lose
// underscores and the " (artist)" marker and are wrapped with the configured
// prefix and suffix regardless of ReplaceUnderscores.
func (n Normalizer) Normalize(tag, category string) string {
	if category == CategoryArtist {
		name := strings.ReplaceAll(tag, "_", " ")
		name = strings.ReplaceAll(name, artistMarker, "")
		return n.ArtistPrefix + name + n.ArtistSuffix
	}
	if n.ReplaceUnderscores {
		return strings.ReplaceAll(tag, "_", " ")
	}
	return tag
}

// Apply filters raw (when filter is set) and normalizes the survivors,
// preserving order.
func (n Normalizer) Apply(raw []string, category string, filter bool) []string {
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		if filter && ShouldIgnore(tag) {
			continue
		}
		out = append(out, n.Normalize(tag, category))
	}
	return out
}
