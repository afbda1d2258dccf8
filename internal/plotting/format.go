package plotting

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// unit words rewritten by MetricLabel
var unitWords = map[string]string{
	"ms":   "(ms)",
	"mbps": "(MB/s)",
	"kb":   "(KB)",
	"mb":   "(MB)",
	"pct":  "(%)",
}

// MetricLabel turns a column name such as avg_write_latency_ms into an axis
// label such as "Avg Write Latency (ms)".
func MetricLabel(column string) string {
	words := strings.FieldsFunc(column, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		if unit, ok := unitWords[strings.ToLower(w)]; ok {
			words[i] = unit
			continue
		}
		words[i] = Capitalize(w)
	}
	return strings.Join(words, " ")
}

// Capitalize upper-cases the first letter of word and lower-cases the rest.
func Capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return strings.ToLower(word)
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// FormatBytes renders a byte count as "N B", "N KB" or "N MB" using integer division.
func FormatBytes(x float64) string {
	n := int64(x)
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%d MB", n/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%d KB", n/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// FormatPercent renders x, already in percent, with a trailing percent sign.
func FormatPercent(x float64) string {
	return strconv.FormatFloat(x, 'g', 4, 64) + "%"
}

// FormatRatio renders a fraction in [0, 1] as a percentage.
func FormatRatio(x float64) string {
	return FormatPercent(x * 100)
}

// FormatNodes renders a node count tick label.
func FormatNodes(x float64) string {
	return fmt.Sprintf("%d Nodes", int(x))
}

// FormatThreshold renders a fileaware threshold, measured in blocks.
func FormatThreshold(x float64) string {
	if int(x) == 1 {
		return "1 Block"
	}
	return fmt.Sprintf("%d Blocks", int(x))
}

// FormatInt renders x without a fractional part.
func FormatInt(x float64) string {
	return strconv.FormatInt(int64(x), 10)
}

// FormatFloat renders x with the shortest representation.
func FormatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
