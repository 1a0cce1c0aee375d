package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hxat/annotation-api/internal/models"
)

// CourseRepository manages persistence for LMS courses and their admin rosters.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByCourseID fetches a course by its external LMS identifier.
func (r *CourseRepository) FindByCourseID(ctx context.Context, courseID string) (*models.Course, error) {
	const query = `SELECT id, course_id, course_name, created_at, updated_at FROM courses WHERE course_id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, courseID); err != nil {
		return nil, err
	}
	return &course, nil
}

// AdminProfiles returns the admin roster of a course, ordered by name so
// callers building name-keyed maps behave deterministically on duplicates.
func (r *CourseRepository) AdminProfiles(ctx context.Context, courseID string) ([]models.Profile, error) {
	const query = `SELECT p.id, p.anon_id, p.name, p.created_at, p.updated_at
FROM profiles p
JOIN course_admins ca ON ca.profile_id = p.id
JOIN courses c ON c.id = ca.course_id
WHERE c.course_id = $1
ORDER BY p.name`
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, courseID); err != nil {
		return nil, err
	}
	return profiles, nil
}
