package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

var lowerCaser = cases.Lower(language.Und)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters and control characters are removed. The result is trimmed of
// leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(ReplaceUnsafe(name))
}

// ReplaceUnsafe applies the SanitizeFileName replacements without trimming,
// for fragments placed inside a larger name.
func ReplaceUnsafe(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return fileNameReplacer.Replace(name)
}

// Prefix returns the first n runes of value, or all of it when shorter.
func Prefix(value string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range value {
		if count == n {
			return value[:i]
		}
		count++
	}
	return value
}

// Lower lowercases value using Unicode case mapping.
func Lower(value string) string {
	return lowerCaser.String(value)
}
