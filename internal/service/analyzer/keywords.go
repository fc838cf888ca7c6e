package analyzer

import (
	"strings"

	"github.com/skillchain/originality-service/internal/models"
)

// minKeywordLength drops short tokens that carry no signal on their own.
const minKeywordLength = 4

// DefaultStopWords are common function words excluded from keyword extraction.
var DefaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "as", "is", "was", "are", "were", "be",
	"been", "being", "have", "has", "had", "do", "does", "did", "will",
	"would", "should", "could", "may", "might", "must", "can", "this",
	"that", "these", "those", "it", "its", "they", "them", "their",
}

// KeywordExtractor turns normalized text into a de-duplicated keyword list.
// The strategy is pluggable so tokenization can change without touching the
// matching logic.
type KeywordExtractor interface {
	Extract(text string) []string
}

type stopWordExtractor struct {
	stopWords map[string]struct{}
}

func NewKeywordExtractor(stopWords []string) KeywordExtractor {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &stopWordExtractor{stopWords: set}
}

func (e *stopWordExtractor) Extract(text string) []string {
	seen := make(map[string]struct{})
	var keywords []string

	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) < minKeywordLength {
			continue
		}
		if _, stop := e.stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}

	return keywords
}

// AnswerKeyMatcher scores a submission against a reference answer using both
// textual similarity and keyword coverage. Either signal alone is sufficient
// to pass: a correct answer may be worded very differently from the key yet
// still cover the required concepts.
type AnswerKeyMatcher interface {
	Match(normalizedContent, normalizedAnswerKey string) models.AnswerKeyResult
}

type answerKeyMatcher struct {
	scorer              Scorer
	extractor           KeywordExtractor
	similarityThreshold float64
	coverageThreshold   float64
}

func NewAnswerKeyMatcher(scorer Scorer, extractor KeywordExtractor, similarityThreshold, coverageThreshold float64) AnswerKeyMatcher {
	return &answerKeyMatcher{
		scorer:              scorer,
		extractor:           extractor,
		similarityThreshold: similarityThreshold,
		coverageThreshold:   coverageThreshold,
	}
}

func (m *answerKeyMatcher) Match(normalizedContent, normalizedAnswerKey string) models.AnswerKeyResult {
	similarity := m.scorer.Similarity(normalizedContent, normalizedAnswerKey)

	keywords := m.extractor.Extract(normalizedAnswerKey)

	matched := 0
	var missing []string
	for _, keyword := range keywords {
		if strings.Contains(normalizedContent, keyword) {
			matched++
		} else {
			missing = append(missing, keyword)
		}
	}

	coverage := 0.0
	if len(keywords) > 0 {
		coverage = float64(matched) / float64(len(keywords))
	}

	return models.AnswerKeyResult{
		Passed:                 similarity >= m.similarityThreshold || coverage >= m.coverageThreshold,
		Similarity:             similarity,
		KeywordMatchPercentage: coverage,
		TotalKeywords:          len(keywords),
		MatchedKeywords:        matched,
		MissingKeywords:        missing,
	}
}
