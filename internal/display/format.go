package display

import "fmt"

// byteUnits are the binary size suffixes above bytes.
var byteUnits = []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatBytes renders n with one decimal in the largest binary unit that
// keeps the value below 1024.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n)
	unit := ""
	for _, unit = range byteUnits {
		v /= 1024
		if v < 1024 {
			break
		}
	}
	return fmt.Sprintf("%.1f %s", v, unit)
}

// Plural returns "1 group", "2 groups" and so on. Nouns ending in s, x, ch
// or sh take "es".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	switch {
	case len(noun) > 0 && (noun[len(noun)-1] == 's' || noun[len(noun)-1] == 'x'),
		len(noun) > 1 && (noun[len(noun)-2:] == "sh" || noun[len(noun)-2:] == "ch"):
		return fmt.Sprintf("%d %ses", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Truncate shortens s to at most max runes, ending with "…" when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
