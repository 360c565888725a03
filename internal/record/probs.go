package record

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/tagsmith/internal/fsio"
)

// DefaultThreshold is the minimum probability a tag needs to be kept.
const DefaultThreshold = 0.2

var parenEscaper = strings.NewReplacer("(", `\(`, ")", `\)`)

// ConvertProbabilities turns a {"tag": probability} JSON object into a
// caption: tags at or above threshold, most probable first (ties by tag),
// parentheses escaped, joined with ", ". Non-numeric values are ignored.
func ConvertProbabilities(data []byte, threshold float64) (string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", err
	}

	type scored struct {
		tag  string
		prob float64
	}
	kept := make([]scored, 0, len(raw))
	for tag, v := range raw {
		var prob float64
		if err := json.Unmarshal(v, &prob); err != nil {
			continue
		}
		if prob >= threshold {
			kept = append(kept, scored{tag, prob})
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].prob != kept[j].prob {
			return kept[i].prob > kept[j].prob
		}
		return kept[i].tag < kept[j].tag
	})

	out := make([]string, len(kept))
	for i, s := range kept {
		out[i] = parenEscaper.Replace(s.tag)
	}
	return strings.Join(out, ", "), nil
}

// ProbsOutputPath returns path with its extension replaced by .txt.
func ProbsOutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
}

// ConvertProbabilitiesFile converts a .json probability file into a .txt
// caption beside it and returns the output path. Files without a .json
// extension are ignored and return "".
func ConvertProbabilitiesFile(path string, threshold float64, dryRun bool) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return "", nil
	}
	data, err := fsio.ReadRaw(path)
	if err != nil {
		return "", err
	}
	caption, err := ConvertProbabilities(data, threshold)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", fsio.ErrUnreadable, path, err)
	}
	out := ProbsOutputPath(path)
	if dryRun {
		return out, nil
	}
	return out, fsio.WriteText(out, caption)
}
