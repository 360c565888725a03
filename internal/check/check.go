// Package check provides the configuration report shown by the check command
// and the preflight validation run before any batch command.
package check

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/backmassage/tagsmith/internal/config"
)

// Sentinel errors returned by Preflight.
var (
	ErrInputNotFound    = errors.New("input not found")
	ErrInputNotDir      = errors.New("input is not a directory")
	ErrInputNotWritable = errors.New("input directory is not writable")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// knownPlaceholders are the template tokens the record formatter fills.
var knownPlaceholders = map[string]bool{
	"rating": true, "artists": true, "characters": true, "species": true,
	"copyright": true, "general": true, "meta": true,
}

var placeholderRe = regexp.MustCompile(`\{([^{}]*)\}`)

// UnknownPlaceholders returns the {tokens} in template that the record
// formatter never fills, sorted and deduplicated.
func UnknownPlaceholders(template string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		name := m[1]
		if knownPlaceholders[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Preflight verifies that cfg.InputDir exists and is a directory and, unless
// running dry, that files can be created in it.
func Preflight(cfg *config.Config) error {
	fi, err := os.Stat(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInputNotFound, cfg.InputDir)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrInputNotDir, cfg.InputDir)
	}
	if cfg.DryRun {
		return nil
	}
	tmp, err := os.CreateTemp(cfg.InputDir, ".tagsmith-check-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInputNotWritable, cfg.InputDir, err)
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)
	return nil
}

// RunCheck logs the effective configuration and the preflight result. It
// returns false when a run with this configuration would be refused.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Configuration Check ===")
	ok := true

	if cfg.ConfigFile != "" {
		log.Info("Config file: %s", cfg.ConfigFile)
	}

	cc := &cfg.Concat
	log.Info("Preset: %s", cfg.Preset)
	log.Info("Images: %s", strings.Join(cc.BaseExtensions, ", "))
	log.Info("Companions (merge order): %s -> .%s", strings.Join(cc.Extensions, ", "), cc.OutputExtension)
	log.Info("Separator: %q, dedupe tags: %t, dedupe files: %t, workers: %d",
		cc.TagSeparator, cc.DedupeTags, cc.DedupeFiles, cc.Workers)

	rc := &cfg.Record
	log.Info("e621 template: %s", rc.Template)
	if unknown := UnknownPlaceholders(rc.Template); len(unknown) > 0 {
		log.Warn("Template placeholders never filled: {%s}", strings.Join(unknown, "}, {"))
	}
	if rc.RatingConversions == nil {
		log.Info("Ratings: verbatim")
	} else {
		keys := make([]string, 0, len(rc.RatingConversions))
		for k := range rc.RatingConversions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + rc.RatingConversions[k]
		}
		log.Info("Ratings: %s", strings.Join(pairs, ", "))
	}
	log.Info("Tag filter: %t, underscores to spaces: %t, artist: %q + name + %q",
		rc.FilterTags, rc.ReplaceUnderscores, rc.ArtistPrefix, rc.ArtistSuffix)

	if cfg.InputDir != "" {
		if err := Preflight(cfg); err != nil {
			log.Error("Input: %v", err)
			ok = false
		} else {
			log.Success("Input: %s", cfg.InputDir)
		}
	}
	if cfg.DryRun {
		log.Debug("Dry run: write check skipped")
	}
	return ok
}
