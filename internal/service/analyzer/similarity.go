package analyzer

import (
	"math"
	"strings"
)

// DefaultMaxExactLength bounds the inputs of the exact dynamic-programming
// distance. Longer texts fall back to the token-set approximation.
const DefaultMaxExactLength = 5000

// Scorer computes a normalized similarity score in [0,1] between two
// normalized texts. The score is symmetric and Similarity(a, a) == 1.
type Scorer interface {
	Similarity(a, b string) float64
}

type similarityScorer struct {
	maxExactLength int
}

func NewScorer(maxExactLength int) Scorer {
	if maxExactLength <= 0 {
		maxExactLength = DefaultMaxExactLength
	}
	return &similarityScorer{maxExactLength: maxExactLength}
}

// Similarity is (L - D) / L where L is the longer length and D the edit
// distance. Inputs longer than maxExactLength are scored with an O(n)
// token-set approximation of D instead of the O(n*m) exact distance.
func (s *similarityScorer) Similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}

	var distance int
	if len(a) > s.maxExactLength || len(b) > s.maxExactLength {
		distance = approxEditDistance(a, b)
	} else {
		distance = editDistance(a, b)
	}

	return float64(longest-distance) / float64(longest)
}

// editDistance is the classic Levenshtein distance with two rolling rows.
// The shorter string is used as the row dimension, bounding memory to
// O(min(len(a), len(b))).
func editDistance(a, b string) int {
	if len(b) > len(a) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// approxEditDistance estimates the edit distance of large texts from their
// Jaccard token-set distance: round(J * min(len(a), len(b))). The estimate
// never exceeds the shorter length, so the resulting similarity stays in
// [0,1], and the construction is symmetric.
func approxEditDistance(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	jaccardDistance := 1.0 - float64(intersection)/float64(union)
	shortest := min(len(a), len(b))

	return int(math.Round(jaccardDistance * float64(shortest)))
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(text) {
		set[token] = true
	}
	return set
}
