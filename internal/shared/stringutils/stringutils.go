// Package stringutils holds character-aware string helpers shared by the
// store, the tools and the CLI.
package stringutils

import "unicode/utf8"

// Head returns the first n characters of s. Characters are runes, so
// multi-byte text is never split mid-sequence.
func Head(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Len returns the number of characters in s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most n characters, ending with "…" if it was cut.
func Truncate(s string, n int) string {
	if Len(s) <= n {
		return s
	}
	return Head(s, n-1) + "…"
}
