package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Identity(t *testing.T) {
	s := NewScorer(DefaultMaxExactLength)

	for _, text := range []string{"", "a", "some normalized text", strings.Repeat("token ", 2000)} {
		assert.Equal(t, 1.0, s.Similarity(text, text))
	}
}

func TestScorer_Symmetry(t *testing.T) {
	s := NewScorer(DefaultMaxExactLength)

	pairs := [][2]string{
		{"kitten", "sitting"},
		{"the quick brown fox", "the slow brown fox"},
		{"", "nonempty"},
		{strings.Repeat("alpha beta ", 600), strings.Repeat("beta gamma ", 700)},
	}

	for _, pair := range pairs {
		assert.Equal(t, s.Similarity(pair[0], pair[1]), s.Similarity(pair[1], pair[0]))
	}
}

func TestScorer_Range(t *testing.T) {
	s := NewScorer(DefaultMaxExactLength)

	pairs := [][2]string{
		{"abc", "xyz"},
		{"completely different", "texts entirely"},
		{strings.Repeat("alpha ", 1200), strings.Repeat("beta ", 1400)},
		{strings.Repeat("shared words here ", 400), strings.Repeat("shared words there ", 400)},
	}

	for _, pair := range pairs {
		score := s.Similarity(pair[0], pair[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestScorer_KnownDistance(t *testing.T) {
	s := NewScorer(DefaultMaxExactLength)

	// kitten -> sitting takes 3 edits; the longer side has 7 characters.
	assert.InDelta(t, 4.0/7.0, s.Similarity("kitten", "sitting"), 1e-9)
}

func TestScorer_EmptyPair(t *testing.T) {
	s := NewScorer(DefaultMaxExactLength)

	assert.Equal(t, 1.0, s.Similarity("", ""))
	assert.Equal(t, 0.0, s.Similarity("", "abcd"))
}

func TestScorer_LargeInputFallback(t *testing.T) {
	s := NewScorer(DefaultMaxExactLength)

	t.Run("identical large texts score 1.0", func(t *testing.T) {
		text := strings.Repeat("alpha beta gamma delta ", 300)
		assert.Greater(t, len(text), DefaultMaxExactLength)
		assert.Equal(t, 1.0, s.Similarity(text, text))
	})

	t.Run("disjoint large texts score near zero", func(t *testing.T) {
		a := strings.Repeat("alpha ", 1200)
		b := strings.Repeat("omega ", 1200)
		assert.Greater(t, len(a), DefaultMaxExactLength)

		score := s.Similarity(a, b)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.Less(t, score, 0.1)
	})

	t.Run("fallback stays symmetric", func(t *testing.T) {
		a := strings.Repeat("one two three four ", 400)
		b := strings.Repeat("three four five six ", 500)
		assert.Equal(t, s.Similarity(a, b), s.Similarity(b, a))
	})
}

func TestEditDistance_RollingRows(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, editDistance(tt.a, tt.b), "editDistance(%q, %q)", tt.a, tt.b)
	}
}
