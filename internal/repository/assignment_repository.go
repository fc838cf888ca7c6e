package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"
)

type AssignmentRepository interface {
	// GetReferenceAnswer returns the assignment's answer key, or an empty
	// string when the assignment has none.
	GetReferenceAnswer(ctx context.Context, assignmentID string) (string, error)
}

type assignmentRepository struct {
	*PostgresRepository
}

func NewAssignmentRepository(db *sql.DB, logger zerolog.Logger) AssignmentRepository {
	return &assignmentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *assignmentRepository) GetReferenceAnswer(ctx context.Context, assignmentID string) (string, error) {
	query := `
		SELECT COALESCE(reference_answer, '')
		FROM assignments
		WHERE id = $1
	`

	var answer string
	err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(&answer)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return answer, nil
}
