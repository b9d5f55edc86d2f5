// Package labels rewrites channel labels so they satisfy the identifier
// rules of the target containers: no whitespace, never purely numeric.
package labels

import (
	"strconv"
	"strings"
	"unicode"
)

// numericPrefix is prepended to labels that would otherwise read as plain
// numbers, which EDF and BrainVision both reject as channel identifiers.
const numericPrefix = "ch"

// Clean strips all whitespace from label and prefixes it when the remainder
// parses as a number. An empty label collapses to the bare prefix.
func Clean(label string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, label)

	if stripped == "" {
		return numericPrefix
	}
	if _, err := strconv.ParseFloat(stripped, 64); err == nil {
		return numericPrefix + stripped
	}
	return stripped
}

// Rewrite returns a new slice with every label cleaned.
func Rewrite(in []string) []string {
	out := make([]string, len(in))
	for i, label := range in {
		out[i] = Clean(label)
	}
	return out
}
