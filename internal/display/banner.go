// Package display holds terminal presentation helpers: the banner, count and
// size formatting, and the progress counter shown during batch runs.
package display

import (
	"fmt"
	"io"

	"github.com/backmassage/tagsmith/internal/term"
)

// PrintBanner writes the ASCII banner to w; magenta when colors are enabled.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, ` _                            _ _   _
| |_ __ _  __ _ ___ _ __ ___ (_) |_| |__
| __/ _`+"`"+` |/ _`+"`"+` / __| '_ `+"`"+` _ \| | __| '_ \
| || (_| | (_| \__ \ | | | | | | |_| | | |
 \__\__,_|\__, |___/_| |_| |_|_|\__|_| |_|
          |___/`)
	fmt.Fprintf(w, "  v%s%s\n", version, term.NC)
}
