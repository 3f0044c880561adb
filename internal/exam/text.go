package exam

import "strings"

// PreviewLength bounds free-text answers shown in the review.
const PreviewLength = 150

// WordCount returns the number of whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Preview truncates s to n runes, appending an ellipsis when it cut anything.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
