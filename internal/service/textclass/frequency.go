package textclass

import (
	"strings"
	"unicode"
)

// MostFrequent counts whole-word occurrences of targets in text and returns
// the most frequent one with its count. Text is lower-cased and every rune
// outside a-z that is not whitespace becomes a separator. A word replaces the
// leader only with a strictly greater count, so ties go to the word that
// reached the maximum first. Returns "", 0 when nothing matched.
func MostFrequent(targets []string, text string) (string, int) {
	wanted := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		wanted[strings.ToLower(t)] = struct{}{}
	}

	normalized := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, word := range strings.Fields(normalized) {
		if _, ok := wanted[word]; !ok {
			continue
		}
		counts[word]++
		if counts[word] > bestCount {
			best, bestCount = word, counts[word]
		}
	}
	return best, bestCount
}
