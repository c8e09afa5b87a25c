package fuzzy

import (
	"strings"
)

// LevenshteinDistance is the number of single-rune edits turning s1 into s2,
// compared case-insensitively.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(normalizeString(s1))
	r2 := []rune(normalizeString(s2))

	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// Match reports whether query appears in text as a substring, a word
// prefix, or a word within threshold edits.
func Match(query, text string, threshold int) bool {
	query = normalizeString(query)
	text = normalizeString(text)
	if query == "" {
		return true
	}
	if text == "" {
		return false
	}

	if strings.Contains(text, query) {
		return true
	}

	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, query) {
			return true
		}
		if LevenshteinDistance(query, word) <= threshold {
			return true
		}
	}
	return false
}

// Threshold scales typo tolerance with query length.
func Threshold(query string) int {
	n := len([]rune(strings.TrimSpace(query)))
	switch {
	case n <= 3:
		return 0
	case n < 8:
		return 1
	default:
		return 2
	}
}

// MatchAny reports whether query matches any of fields.
func MatchAny(query string, fields ...string) bool {
	threshold := Threshold(query)
	for _, field := range fields {
		if Match(query, field, threshold) {
			return true
		}
	}
	return false
}

// normalizeString lowercases and collapses whitespace
func normalizeString(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
