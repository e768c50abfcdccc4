// Package strings holds small text helpers shared by the CLI output and the
// test case comparison code.
package strings

import (
	"strings"
	"unicode/utf8"
)

// DefaultTitleMaxLen is the default width of a test case title in table output.
const DefaultTitleMaxLen = 60

// MinTruncateLen is the smallest maxLen Truncate honors: one rune plus "...".
const MinTruncateLen = 4

// CollapseSpace trims s and replaces every run of whitespace (spaces, tabs,
// newlines) with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate collapses whitespace in s and cuts it to at most maxLen runes,
// ending in "..." when something was cut. maxLen below MinTruncateLen is
// raised to MinTruncateLen.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = CollapseSpace(s)
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

// Words lower-cases s and returns its whitespace separated tokens that are
// longer than minRunes runes, in order of appearance. Duplicates are kept.
func Words(s string, minRunes int) []string {
	fields := strings.Fields(strings.ToLower(s))
	words := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > minRunes {
			words = append(words, f)
		}
	}
	return words
}
