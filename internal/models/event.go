package models

import (
	"time"
)

type SubmissionCreatedEvent struct {
	SubmissionID string `json:"submission_id"`
	AssignmentID string `json:"assignment_id"`
	StudentID    string `json:"student_id"`
	Content      string `json:"content"`
	Timestamp    int64  `json:"timestamp"`
}

type VerificationCompletedEvent struct {
	VerificationID       string           `json:"verification_id"`
	SubmissionID         string           `json:"submission_id"`
	AssignmentID         string           `json:"assignment_id"`
	StudentID            string           `json:"student_id"`
	Passed               bool             `json:"passed"`
	OverallSimilarity    float64          `json:"overall_similarity"`
	RequiresManualReview bool             `json:"requires_manual_review"`
	Verdict              *Verdict         `json:"verdict,omitempty"`
	AnswerKey            *AnswerKeyResult `json:"answer_key,omitempty"`
	ProcessingTimeMs     int              `json:"processing_time_ms"`
	CompletedAt          time.Time        `json:"completed_at"`
}

type VerificationFailedEvent struct {
	SubmissionID string    `json:"submission_id"`
	Error        string    `json:"error"`
	FailedAt     time.Time `json:"failed_at"`
}
