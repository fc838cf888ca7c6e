package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/skillchain/originality-service/internal/models"
)

// SubmissionRepository is the read-only view of the submission corpus. The
// corpus is owned by the submission pipeline; this service never writes to it.
type SubmissionRepository interface {
	FindByAssignmentExcludingStudent(ctx context.Context, assignmentID, excludeStudentID string) ([]models.Submission, error)
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) FindByAssignmentExcludingStudent(ctx context.Context, assignmentID, excludeStudentID string) ([]models.Submission, error) {
	query := `
		SELECT id, assignment_id, student_id, content, submitted_at
		FROM submissions
		WHERE assignment_id = $1
			AND student_id != $2
		ORDER BY submitted_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID, excludeStudentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var s models.Submission
		err := rows.Scan(
			&s.ID,
			&s.AssignmentID,
			&s.StudentID,
			&s.Content,
			&s.SubmittedAt,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}
