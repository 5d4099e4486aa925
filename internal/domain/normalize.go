package domain

import (
	"regexp"
	"strings"
)

var parentheticalPattern = regexp.MustCompile(`\s*\([^)]*\)`)

// NormalizeText prepares text for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// CleanName strips the first parenthetical note from a user supplied organism
// name ("Canis lupus (wolf)" becomes "Canis lupus") and trims the result.
func CleanName(name string) string {
	loc := parentheticalPattern.FindStringIndex(name)
	if loc != nil {
		name = name[:loc[0]] + name[loc[1]:]
	}
	return strings.TrimSpace(name)
}
