// Package config holds runtime configuration: defaults, presets, file and
// environment overlays, CLI flag overlays, and validation.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// --- Enum types for validated string fields ---

// Preset names a predefined companion-extension combination.
type Preset string

const (
	PresetCaptionWdTags  Preset = "caption-wd-tags"  // .caption + .wd + .tags (default).
	PresetFlorenceWdTags Preset = "florence-wd-tags" // .florence + .wd + .tags.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultTemplate is the caption layout used by the record formatter when no
// template is configured.
const DefaultTemplate = "{rating}, {artists}, {characters}, {species}, {copyright}, {general}, {meta}"

// imageExtensions is the base extension set shared by both presets.
var imageExtensions = []string{"png", "jpg", "jpeg", "webp", "gif", "tiff", "bmp", "jxl", "avif"}

// ConcatConfig drives the directory concatenator. Extension lists are
// ordered and stored without the leading dot.
type ConcatConfig struct {
	BaseExtensions  []string `yaml:"base_extensions"`
	Extensions      []string `yaml:"extensions"`
	OutputExtension string   `yaml:"output_extension"`
	TagSeparator    string   `yaml:"tag_separator"`
	DedupeTags      bool     `yaml:"dedupe_tags"`
	DedupeFiles     bool     `yaml:"dedupe_files"`
	SkipExisting    bool     `yaml:"skip_existing"` // Keep non-blank outputs untouched.
	Workers         int      `yaml:"workers"`       // Default: runtime.NumCPU().
}

// RecordConfig drives the structured-record (e621) formatter.
type RecordConfig struct {
	FilterTags bool `yaml:"filter_tags"`
	// RatingConversions maps raw ratings to display strings. Nil disables
	// conversion; unmapped ratings always pass through verbatim.
	RatingConversions  map[string]string `yaml:"rating_conversions"`
	Template           string            `yaml:"template"`
	ArtistPrefix       string            `yaml:"artist_prefix"` // Default: "by ".
	ArtistSuffix       string            `yaml:"artist_suffix"`
	ReplaceUnderscores bool              `yaml:"replace_underscores"`
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid by [LoadFile], [ApplyEnv] and [ApplyFlags], then passed by
// pointer to the packages that need it.
type Config struct {
	// Paths (set from positional args).
	InputDir string `yaml:"-"`

	Preset Preset       `yaml:"preset"`
	Concat ConcatConfig `yaml:"concat"`
	Record RecordConfig `yaml:"record"`

	// Behavior flags.
	DryRun bool `yaml:"dry_run"`

	// Display and logging.
	Verbose    bool      `yaml:"verbose"`
	ColorMode  ColorMode `yaml:"color"`
	LogFile    string    `yaml:"log_file"`
	ConfigFile string    `yaml:"-"`
}

// DefaultConfig returns a Config using the caption+wd+tags preset and the
// stock e621 formatting rules.
func DefaultConfig() Config {
	return Config{
		Preset:    PresetCaptionWdTags,
		Concat:    PresetConcat(PresetCaptionWdTags),
		Record:    DefaultRecordConfig(),
		ColorMode: ColorAuto,
	}
}

// PresetConcat returns the concatenator settings for a preset. Unknown
// presets fall back to caption+wd+tags; [Config.Validate] rejects them.
func PresetConcat(p Preset) ConcatConfig {
	c := ConcatConfig{
		BaseExtensions:  append([]string(nil), imageExtensions...),
		Extensions:      []string{"caption", "wd", "tags"},
		OutputExtension: "txt",
		TagSeparator:    ", ",
		DedupeTags:      true,
		DedupeFiles:     false,
		Workers:         runtime.NumCPU(),
	}
	if p == PresetFlorenceWdTags {
		c.Extensions = []string{"florence", "wd", "tags"}
	}
	return c
}

// DefaultRecordConfig returns the stock e621 formatting rules.
func DefaultRecordConfig() RecordConfig {
	return RecordConfig{
		FilterTags:         true,
		RatingConversions:  DefaultRatingConversions(),
		Template:           DefaultTemplate,
		ArtistPrefix:       "by ",
		ReplaceUnderscores: true,
	}
}

// DefaultRatingConversions returns a fresh copy of the s/q/e rating map.
func DefaultRatingConversions() map[string]string {
	return map[string]string{
		"s": "safe",
		"q": "questionable",
		"e": "explicit",
	}
}

// ApplyPreset replaces the concatenator extension set with the preset's,
// keeping separator, dedupe and worker settings.
func (c *Config) ApplyPreset(p Preset) {
	base := PresetConcat(p)
	c.Preset = p
	c.Concat.BaseExtensions = base.BaseExtensions
	c.Concat.Extensions = base.Extensions
	c.Concat.OutputExtension = base.OutputExtension
}

// NormalizeExtensions lowercases and strips leading dots and whitespace,
// dropping empty entries. Order is preserved. Base extensions are matched
// case-insensitively, so they go through this.
func NormalizeExtensions(exts []string) []string {
	out := TrimExtensions(exts)
	for i, e := range out {
		out[i] = strings.ToLower(e)
	}
	return out
}

// TrimExtensions strips leading dots and whitespace and drops empty entries,
// keeping case. Companion and output extensions name files exactly.
func TrimExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimLeft(strings.TrimSpace(e), ".")
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and the concatenator extension sets, and
// normalizes extension spelling in place.
func (c *Config) Validate() error {
	switch c.Preset {
	case PresetCaptionWdTags, PresetFlorenceWdTags:
		// valid
	default:
		return fmt.Errorf("invalid preset %q (use %q or %q)", c.Preset, PresetCaptionWdTags, PresetFlorenceWdTags)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	cc := &c.Concat
	cc.BaseExtensions = NormalizeExtensions(cc.BaseExtensions)
	cc.Extensions = TrimExtensions(cc.Extensions)
	cc.OutputExtension = strings.TrimLeft(strings.TrimSpace(cc.OutputExtension), ".")

	if len(cc.BaseExtensions) == 0 {
		return errors.New("at least one base extension is required")
	}
	if len(cc.Extensions) == 0 {
		return errors.New("at least one companion extension is required")
	}
	if cc.OutputExtension == "" {
		return errors.New("output extension must not be empty")
	}
	for _, e := range append(append([]string(nil), cc.BaseExtensions...), cc.Extensions...) {
		if strings.EqualFold(e, cc.OutputExtension) {
			return fmt.Errorf("output extension %q would overwrite an input file", e)
		}
	}
	if cc.Workers <= 0 {
		return fmt.Errorf("workers must be positive (got %d)", cc.Workers)
	}
	return nil
}
