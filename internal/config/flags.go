package config

// This file implements CLI flag registration and the flag overlay.
// Flags are grouped into global, concatenator and record sets. Values are
// captured into Flags and applied after Parse, and only when the user set
// them, so file and environment settings hold unless overridden.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds raw flag values captured by pflag before [ApplyFlags] copies
// the changed ones into a Config.
type Flags struct {
	// Global.
	ConfigFile string
	EnvFile    string
	Verbose    bool
	ForceColor bool
	NoColor    bool
	LogFile    string
	DryRun     bool

	// Concatenator.
	Preset            string
	BaseExtensions    []string
	Extensions        []string
	OutputExtension   string
	Separator         string
	DedupeTags        bool
	KeepDuplicateTags bool
	DedupeFiles       bool
	SkipExisting      bool
	Workers           int

	// Record formatter.
	NoFilter        bool
	Template        string
	ArtistPrefix    string
	ArtistSuffix    string
	KeepUnderscores bool
	Ratings         map[string]string
	NoRatingMap     bool
}

// RegisterGlobal registers --config, --env-file, -v/--verbose, --color,
// --no-color, -l/--log and -d/--dry-run.
func RegisterGlobal(fs *pflag.FlagSet, f *Flags) {
	fs.StringVar(&f.ConfigFile, "config", "", "YAML configuration file")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "Environment file loaded before TAGSMITH_* variables are read")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVar(&f.ForceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.NoColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&f.LogFile, "log", "l", "", "Append logs to file (rotated)")
	fs.BoolVarP(&f.DryRun, "dry-run", "d", false, "Preview only; log intended writes without writing")
}

// RegisterConcat registers the directory concatenator flags.
func RegisterConcat(fs *pflag.FlagSet, f *Flags) {
	fs.StringVarP(&f.Preset, "preset", "p", string(PresetCaptionWdTags), "Extension preset: caption-wd-tags | florence-wd-tags")
	fs.StringSliceVar(&f.BaseExtensions, "base-ext", nil, "Base (image) extensions, comma separated")
	fs.StringSliceVarP(&f.Extensions, "ext", "e", nil, "Companion extensions to merge, in order, comma separated")
	fs.StringVarP(&f.OutputExtension, "output-ext", "o", "txt", "Output file extension")
	fs.StringVarP(&f.Separator, "separator", "s", ", ", "Tag separator")
	fs.BoolVar(&f.DedupeTags, "dedupe-tags", true, "Deduplicate and sort tags")
	fs.BoolVar(&f.KeepDuplicateTags, "keep-duplicate-tags", false, "Keep source order and duplicate tags")
	fs.BoolVar(&f.DedupeFiles, "dedupe-files", false, "Skip item groups whose companion files duplicate an earlier group")
	fs.BoolVar(&f.SkipExisting, "skip-existing", false, "Leave images whose output file already has content")
	fs.IntVarP(&f.Workers, "workers", "w", 0, "Concurrent item groups (default: number of CPUs)")
}

// RegisterRecord registers the e621 record formatter flags.
func RegisterRecord(fs *pflag.FlagSet, f *Flags) {
	fs.BoolVar(&f.NoFilter, "no-filter", false, "Keep years, aspect ratios and conditional_dnp")
	fs.StringVarP(&f.Template, "template", "t", DefaultTemplate, "Caption template with {placeholders}")
	fs.StringVar(&f.ArtistPrefix, "artist-prefix", "by ", "Text placed before artist names")
	fs.StringVar(&f.ArtistSuffix, "artist-suffix", "", "Text placed after artist names")
	fs.BoolVar(&f.KeepUnderscores, "keep-underscores", false, "Do not replace underscores with spaces")
	fs.StringToStringVar(&f.Ratings, "rating", nil, "Rating conversions, e.g. s=sfw,e=nsfw (replaces the default map)")
	fs.BoolVar(&f.NoRatingMap, "no-rating-map", false, "Emit ratings verbatim")
}

// ApplyFlags copies every flag the user explicitly set into c. Flags that
// were not registered on fs are ignored.
func ApplyFlags(c *Config, fs *pflag.FlagSet, f *Flags) error {
	changed := func(name string) bool {
		fl := fs.Lookup(name)
		return fl != nil && fl.Changed
	}

	if changed("verbose") {
		c.Verbose = f.Verbose
	}
	if changed("no-color") && f.NoColor {
		c.ColorMode = ColorNever
	} else if changed("color") && f.ForceColor {
		c.ColorMode = ColorAlways
	}
	if changed("log") {
		c.LogFile = f.LogFile
	}
	if changed("dry-run") {
		c.DryRun = f.DryRun
	}

	if changed("preset") {
		p := Preset(strings.ToLower(strings.TrimSpace(f.Preset)))
		if p != PresetCaptionWdTags && p != PresetFlorenceWdTags {
			return fmt.Errorf("invalid preset %q (use %q or %q)", f.Preset, PresetCaptionWdTags, PresetFlorenceWdTags)
		}
		c.ApplyPreset(p)
	}
	if changed("base-ext") {
		c.Concat.BaseExtensions = f.BaseExtensions
	}
	if changed("ext") {
		c.Concat.Extensions = f.Extensions
	}
	if changed("output-ext") {
		c.Concat.OutputExtension = f.OutputExtension
	}
	if changed("separator") {
		c.Concat.TagSeparator = f.Separator
	}
	if changed("dedupe-tags") {
		c.Concat.DedupeTags = f.DedupeTags
	}
	if changed("keep-duplicate-tags") && f.KeepDuplicateTags {
		c.Concat.DedupeTags = false
	}
	if changed("dedupe-files") {
		c.Concat.DedupeFiles = f.DedupeFiles
	}
	if changed("skip-existing") {
		c.Concat.SkipExisting = f.SkipExisting
	}
	if changed("workers") {
		c.Concat.Workers = f.Workers
	}

	if changed("no-filter") && f.NoFilter {
		c.Record.FilterTags = false
	}
	if changed("template") {
		c.Record.Template = f.Template
	}
	if changed("artist-prefix") {
		c.Record.ArtistPrefix = f.ArtistPrefix
	}
	if changed("artist-suffix") {
		c.Record.ArtistSuffix = f.ArtistSuffix
	}
	if changed("keep-underscores") && f.KeepUnderscores {
		c.Record.ReplaceUnderscores = false
	}
	if changed("rating") {
		c.Record.RatingConversions = f.Ratings
	}
	if changed("no-rating-map") && f.NoRatingMap {
		c.Record.RatingConversions = nil
	}
	return nil
}
