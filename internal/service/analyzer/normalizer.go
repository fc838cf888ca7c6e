package analyzer

import (
	"strings"
	"unicode"
)

// Normalizer canonicalizes raw submission text before any comparison:
// lowercase, punctuation stripped, whitespace collapsed, trimmed.
// Normalization is deterministic and idempotent.
type Normalizer interface {
	Normalize(text string) string
}

type textNormalizer struct{}

func NewNormalizer() Normalizer {
	return &textNormalizer{}
}

func (n *textNormalizer) Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
