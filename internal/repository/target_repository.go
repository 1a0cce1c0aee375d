package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hxat/annotation-api/internal/models"
)

const targetColumns = `id, assignment_id, target_object_id, target_order,
target_external_css, target_instructions, target_external_options, created_at, updated_at`

// TargetRepository manages target objects and their placement inside assignments.
type TargetRepository struct {
	db *sqlx.DB
}

// NewTargetRepository constructs a TargetRepository.
func NewTargetRepository(db *sqlx.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

// FindObjectByID fetches one piece of source material by primary key.
func (r *TargetRepository) FindObjectByID(ctx context.Context, id int64) (*models.TargetObject, error) {
	const query = `SELECT id, target_title, target_content, target_type, created_at, updated_at FROM target_objects WHERE id = $1`
	var object models.TargetObject
	if err := r.db.GetContext(ctx, &object, query, id); err != nil {
		return nil, err
	}
	return &object, nil
}

// FindTarget fetches the placement of an object within an assignment.
func (r *TargetRepository) FindTarget(ctx context.Context, assignmentPK, objectID int64) (*models.AssignmentTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM assignment_targets WHERE assignment_id = $1 AND target_object_id = $2`
	var target models.AssignmentTarget
	if err := r.db.GetContext(ctx, &target, query, assignmentPK, objectID); err != nil {
		return nil, err
	}
	return &target, nil
}

// FindTargetByOrder fetches the placement occupying a given order position.
// Order values form a dense 1..N sequence per assignment, so order±1 is the
// predecessor/successor lookup.
func (r *TargetRepository) FindTargetByOrder(ctx context.Context, assignmentPK int64, order int) (*models.AssignmentTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM assignment_targets WHERE assignment_id = $1 AND target_order = $2`
	var target models.AssignmentTarget
	if err := r.db.GetContext(ctx, &target, query, assignmentPK, order); err != nil {
		return nil, err
	}
	return &target, nil
}

// CountTargets returns the number of objects placed in an assignment.
func (r *TargetRepository) CountTargets(ctx context.Context, assignmentPK int64) (int, error) {
	const query = `SELECT COUNT(*) FROM assignment_targets WHERE assignment_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, assignmentPK); err != nil {
		return 0, err
	}
	return total, nil
}
