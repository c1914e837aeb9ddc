package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

// CourseRepository manages persistence for catalog courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses ordered by course code then title with a total count.
// A program filter matches through the specialization's owning program.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int64, error) {
	base := "FROM courses c WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SpecializationID != nil {
		conditions = append(conditions, fmt.Sprintf("c.specialization_id = $%d", len(args)+1))
		args = append(args, *filter.SpecializationID)
	}
	if filter.TermID != nil {
		conditions = append(conditions, fmt.Sprintf("c.term_id = $%d", len(args)+1))
		args = append(args, *filter.TermID)
	}
	if filter.ProgramID != nil {
		conditions = append(conditions, fmt.Sprintf("c.specialization_id IN (SELECT specialization_id FROM program_specializations WHERE program_id = $%d)", len(args)+1))
		args = append(args, *filter.ProgramID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	_, size, offset := clampPage(filter.Page, filter.Limit)

	query := fmt.Sprintf("SELECT c.course_id, c.title, c.course_code, c.description, c.term_id, c.specialization_id, c.created_at, c.updated_at %s ORDER BY c.course_code ASC, c.title ASC LIMIT %d OFFSET %d", base, size, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// FindByID fetches a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT course_id, title, course_code, description, term_id, specialization_id, created_at, updated_at FROM courses WHERE course_id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByCode checks whether another course uses the same code.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM courses WHERE LOWER(course_code) = LOWER($1)"
	args := []interface{}{code}
	if excludeID > 0 {
		query += " AND course_id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create inserts a new course and fills in the generated id and timestamps.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO courses (title, course_code, description, term_id, specialization_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING course_id`
	if err := r.db.GetContext(ctx, &course.CourseID, query, course.Title, course.CourseCode, course.Description, course.TermID, course.SpecializationID, course.CreatedAt, course.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "Course code already exists")
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, course_code = :course_code, description = :description, term_id = :term_id, specialization_id = :specialization_id, updated_at = :updated_at WHERE course_id = :course_id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "Course code already exists")
		}
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course; it reports whether a row was deleted.
func (r *CourseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE course_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete course: %w", err)
	}
	return affected > 0, nil
}
