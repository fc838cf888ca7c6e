package models

import (
	"time"
)

type MatchType string

const (
	MatchTypeExact   MatchType = "exact"
	MatchTypeSimilar MatchType = "similar"
)

func (mt MatchType) String() string {
	return string(mt)
}

const (
	CheckTypeInternal        = "internal"
	CheckTypeExternal        = "external"
	CheckTypeExternalSkipped = "external_skipped"
	CheckTypeExternalError   = "external_error"
	CheckTypeTimeout         = "timeout"
)

// MatchRecord describes one prior submission that matched the checked content.
type MatchRecord struct {
	StudentID  string    `json:"student_id"`
	Similarity float64   `json:"similarity"`
	MatchType  MatchType `json:"match_type"`
}

type ExternalSource struct {
	URL        string  `json:"url,omitempty"`
	Title      string  `json:"title,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
}

// CheckResult is the outcome of a single originality check. It is built once
// per invocation and never mutated or persisted by this service.
type CheckResult struct {
	Passed               bool             `json:"passed"`
	Similarity           float64          `json:"similarity"`
	Matches              []MatchRecord    `json:"matches,omitempty"`
	Sources              []ExternalSource `json:"sources,omitempty"`
	ScanID               string           `json:"scan_id,omitempty"`
	CheckType            string           `json:"check_type"`
	Error                string           `json:"error,omitempty"`
	RequiresManualReview bool             `json:"requires_manual_review,omitempty"`
}

// Verdict aggregates the internal and external checks. Passed is the logical
// AND of both sub-results; the manual-review flag is sticky, it is OR'd across
// sub-results and never cleared.
type Verdict struct {
	Passed               bool        `json:"passed"`
	OverallSimilarity    float64     `json:"overall_similarity"`
	Internal             CheckResult `json:"internal"`
	External             CheckResult `json:"external"`
	Timestamp            time.Time   `json:"timestamp"`
	RequiresManualReview bool        `json:"requires_manual_review,omitempty"`
}

type AnswerKeyResult struct {
	Passed                 bool     `json:"passed"`
	Similarity             float64  `json:"similarity"`
	KeywordMatchPercentage float64  `json:"keyword_match_percentage"`
	TotalKeywords          int      `json:"total_keywords"`
	MatchedKeywords        int      `json:"matched_keywords"`
	MissingKeywords        []string `json:"missing_keywords,omitempty"`
}
