package tags

import "strings"

// Placeholder is one {Name} token and its substituted value.
type Placeholder struct {
	Name  string
	Value string
}

// Render replaces every {Name} token in template with its value in a single
// pass. Inserted values are never rescanned, so a value containing another
// token is written literally. When a name repeats, the first entry wins.
func Render(template string, values []Placeholder) string {
	pairs := make([]string, 0, 2*len(values))
	for _, p := range values {
		pairs = append(pairs, "{"+p.Name+"}", p.Value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// cleanupPairs are the separator artifacts left by empty placeholders.
var cleanupPairs = strings.NewReplacer(", ,", ",", ",,", ",", " ,", ",")

// Cleanup collapses separator artifacts and trims leading and trailing
// spaces and commas. It repeats until nothing changes, so
// Cleanup(Cleanup(s)) == Cleanup(s).
func Cleanup(s string) string {
	for {
		next := strings.Trim(cleanupPairs.Replace(s), " ,")
		if next == s {
			return next
		}
		s = next
	}
}
