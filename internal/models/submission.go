package models

import "time"

// Submission is a prior submission read from the shared corpus. The corpus is
// owned by the submission pipeline; this service only ever reads it.
type Submission struct {
	ID           string    `json:"id" db:"id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	Content      string    `json:"content" db:"content"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"`
}

type Assignment struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	ReferenceAnswer string    `json:"reference_answer" db:"reference_answer"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
