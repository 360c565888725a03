package record

import (
	"strings"

	"github.com/backmassage/tagsmith/internal/config"
	"github.com/backmassage/tagsmith/internal/tags"
)

// placeholderNames maps each record category to its template placeholder.
var placeholderNames = map[string]string{
	"artist":    "artists",
	"character": "characters",
	"species":   "species",
	"copyright": "copyright",
	"general":   "general",
	"meta":      "meta",
}

// categorySeparator joins tags within one category.
const categorySeparator = ", "

// Formatter renders records into captions. It is immutable and safe for
// concurrent use.
type Formatter struct {
	cfg  config.RecordConfig
	norm tags.Normalizer
}

// NewFormatter returns a Formatter for cfg. An empty template means
// config.DefaultTemplate.
func NewFormatter(cfg config.RecordConfig) *Formatter {
	if cfg.Template == "" {
		cfg.Template = config.DefaultTemplate
	}
	return &Formatter{
		cfg: cfg,
		norm: tags.Normalizer{
			ArtistPrefix:       cfg.ArtistPrefix,
			ArtistSuffix:       cfg.ArtistSuffix,
			ReplaceUnderscores: cfg.ReplaceUnderscores,
		},
	}
}

// ConvertRating maps a raw rating through the configured conversions.
// Unmapped ratings, or any rating when conversions are disabled, pass
// through unchanged.
func (f *Formatter) ConvertRating(rating string) string {
	if converted, ok := f.cfg.RatingConversions[rating]; ok {
		return converted
	}
	return rating
}

// Format renders r. ok is false when nothing should be written: the cleaned
// caption is empty, or filtering is on and no category produced a tag.
func (f *Formatter) Format(r *Record) (caption string, ok bool) {
	values := make([]tags.Placeholder, 0, len(tags.RecordCategories)+1)
	values = append(values, tags.Placeholder{Name: "rating", Value: f.ConvertRating(r.Rating)})

	populated := false
	for _, name := range tags.RecordCategories {
		normalized := f.norm.Apply(r.Tags[name], name, f.cfg.FilterTags)
		if len(normalized) > 0 {
			populated = true
		}
		values = append(values, tags.Placeholder{
			Name:  placeholderNames[name],
			Value: strings.Join(normalized, categorySeparator),
		})
	}

	caption = tags.Cleanup(tags.Render(f.cfg.Template, values))
	if strings.TrimSpace(caption) == "" {
		return "", false
	}
	if f.cfg.FilterTags && !populated {
		return caption, false
	}
	return caption, true
}
