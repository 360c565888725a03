package config

// This file implements the file and environment overlays applied between
// DefaultConfig and flag parsing.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by [ApplyEnv].
const EnvPrefix = "TAGSMITH_"

// LoadFile overlays a YAML config file onto c. Keys absent from the file
// keep their current values. A preset named in the file is applied before
// the rest of the file so explicit extension lists still win.
func LoadFile(c *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var head struct {
		Preset Preset `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if head.Preset != "" {
		c.ApplyPreset(head.Preset)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.ConfigFile = path
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// LookupFunc matches os.LookupEnv; tests substitute a map lookup.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays TAGSMITH_* variables onto c.
func ApplyEnv(c *Config, lookup LookupFunc) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}
		return v, true
	}

	if v, ok := get("PRESET"); ok {
		c.ApplyPreset(Preset(strings.ToLower(strings.TrimSpace(v))))
	}
	if v, ok := get("BASE_EXTENSIONS"); ok {
		c.Concat.BaseExtensions = splitList(v)
	}
	if v, ok := get("EXTENSIONS"); ok {
		c.Concat.Extensions = splitList(v)
	}
	if v, ok := get("OUTPUT_EXT"); ok {
		c.Concat.OutputExtension = v
	}
	if v, ok := get("SEPARATOR"); ok {
		c.Concat.TagSeparator = v
	}
	if v, ok := get("TEMPLATE"); ok {
		c.Record.Template = v
	}
	if v, ok := get("ARTIST_PREFIX"); ok {
		c.Record.ArtistPrefix = v
	}
	if v, ok := get("ARTIST_SUFFIX"); ok {
		c.Record.ArtistSuffix = v
	}
	if v, ok := get("LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := get("WORKERS"); ok {
		n, err := parseInt(v, EnvPrefix+"WORKERS")
		if err != nil {
			return err
		}
		c.Concat.Workers = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"DEDUPE_TAGS", &c.Concat.DedupeTags},
		{"DEDUPE_FILES", &c.Concat.DedupeFiles},
		{"SKIP_EXISTING", &c.Concat.SkipExisting},
		{"FILTER_TAGS", &c.Record.FilterTags},
		{"REPLACE_UNDERSCORES", &c.Record.ReplaceUnderscores},
		{"DRY_RUN", &c.DryRun},
		{"VERBOSE", &c.Verbose},
	}
	for _, b := range bools {
		v, ok := get(b.name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s must be a boolean (got %q)", EnvPrefix, b.name, v)
		}
		*b.dst = parsed
	}
	return nil
}

// splitList splits a comma-separated list, trimming entries and dropping
// empty ones.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseInt parses a whole number and names the offending setting on failure.
func parseInt(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number (got %q)", name, s)
	}
	return n, nil
}
