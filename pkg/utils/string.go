package utils

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Preview returns at most n runes of s followed by "..." when truncated.
// It is used to keep user text short in log fields.
func Preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// NormalizeText converts text to NFC and trims surrounding whitespace.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// UTF16Len returns the length of s in UTF-16 code units, the way browsers
// and DeepL's limits count text. Characters outside the BMP count twice.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if size := utf16.RuneLen(r); size > 0 {
			n += size
		} else {
			n++
		}
	}
	return n
}
