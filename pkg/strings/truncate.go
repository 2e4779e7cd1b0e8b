// Package strings holds string helpers shared by the backend client and the
// terminal output.
package strings

import (
	"strings"
)

// ellipsis marks truncated text.
const ellipsis = "..."

// MinTruncateLen is the smallest useful maxLen: one rune plus the ellipsis.
const MinTruncateLen = len(ellipsis) + 1

// Truncate collapses all whitespace runs in s to single spaces and shortens
// the result to at most maxLen runes, ending in "..." when shortened. Values
// of maxLen below MinTruncateLen are raised to it.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}
