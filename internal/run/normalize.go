package run

import (
	"math"
	"regexp"
	"strings"
)

// WordsPerMinute is the assumed presenter pace.
const WordsPerMinute = 150

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeKey trims, lowercases and collapses internal whitespace.
// Used for style filters.
func NormalizeKey(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateSpeakingSeconds converts a word count into read-aloud seconds.
func EstimateSpeakingSeconds(words int) int {
	return int(math.Ceil(float64(words) * 60 / WordsPerMinute))
}
