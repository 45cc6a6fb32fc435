package util

import (
	"fmt"
	"strings"
)

// WordCount counts whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// FormatPercent renders a fraction in [0,1] as a percentage with two
// decimals, e.g. 0.92 -> "92.00%".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// JoinOrNone joins items with a comma, or returns "None listed" for an empty
// list so the prompt never carries a bare blank.
func JoinOrNone(items []string) string {
	if len(items) == 0 {
		return "None listed"
	}
	return strings.Join(items, ", ")
}
