package usecase

import (
	"regexp"
	"strings"

	"github.com/shophub/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var wordRegex = regexp.MustCompile(`[a-z0-9]+`)

// similarityRatio computes a normalized similarity between two strings:
// twice the length of their longest common subsequence divided by the total
// length of both. 1.0 means identical, 0.0 means nothing in common.
func similarityRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	// Two-row LCS table; ra is the shorter string.
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := 1; i <= len(rb); i++ {
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	matched := prev[len(ra)]
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// fieldScore scores a query against one text field. A literal substring hit
// is a perfect score; otherwise the best similarity ratio against any single
// word, or against the whole field, wins.
func fieldScore(query, text string) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || text == "" {
		return 0
	}
	text = strings.ToLower(text)
	if strings.Contains(text, query) {
		return 1.0
	}

	best := similarityRatio(query, text)
	for _, word := range wordRegex.FindAllString(text, -1) {
		if s := similarityRatio(query, word); s > best {
			best = s
		}
	}
	return best
}

// MatchScore rates how well a product matches a free-text query, in [0,1].
// A query appearing verbatim in the name, category, or description scores
// 1.0; otherwise word-level similarity against the combined text and against
// the full name decides.
func MatchScore(query string, p *domain.Product) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0
	}

	haystack := strings.ToLower(p.Name + " " + p.Category + " " + p.Description)
	if strings.Contains(haystack, query) {
		return 1.0
	}

	best := similarityRatio(query, strings.ToLower(p.Name))
	for _, word := range wordRegex.FindAllString(haystack, -1) {
		if s := similarityRatio(query, word); s > best {
			best = s
		}
	}
	return best
}
