package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hxat/annotation-api/internal/models"
)

const assignmentColumns = `id, assignment_id, assignment_name, annotation_database_url,
annotation_database_apikey, annotation_database_secret_token, pagination_limit,
highlights_options, is_published, hidden, course_id, created_at, updated_at`

// AssignmentRepository manages persistence for assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindByAssignmentID fetches an assignment by its external identifier,
// which is also the annotation store's collection key.
func (r *AssignmentRepository) FindByAssignmentID(ctx context.Context, assignmentID string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE assignment_id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, assignmentID); err != nil {
		return nil, err
	}
	return &assignment, nil
}
