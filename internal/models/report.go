package models

import "time"

// VerdictReport is the human-readable rendering of a Verdict. All percentages
// are rounded to two decimal places.
type VerdictReport struct {
	Summary       ReportSummary  `json:"summary"`
	InternalCheck InternalReport `json:"internal_check"`
	ExternalCheck ExternalReport `json:"external_check"`
}

type ReportSummary struct {
	Passed               bool      `json:"passed"`
	OverallSimilarity    string    `json:"overall_similarity"`
	RequiresManualReview bool      `json:"requires_manual_review,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}

type InternalReport struct {
	Passed       bool          `json:"passed"`
	Similarity   string        `json:"similarity"`
	MatchesFound int           `json:"matches_found"`
	Details      []MatchDetail `json:"details,omitempty"`
}

type MatchDetail struct {
	Similarity string `json:"similarity"`
	Type       string `json:"type"`
}

type ExternalReport struct {
	Passed       bool   `json:"passed"`
	Similarity   string `json:"similarity"`
	SourcesFound int    `json:"sources_found"`
	CheckType    string `json:"check_type"`
}
