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

// StudentRepository manages persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the filter, newest first, with a total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error) {
	base := "FROM students WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("gender = $%d", len(args)+1))
		args = append(args, filter.Gender)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(student_number) LIKE $%d OR LOWER(contact_email) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	_, size, offset := clampPage(filter.Page, filter.Limit)

	query := fmt.Sprintf("SELECT student_id, student_number, full_name, gender, birth_date, contact_email, student_photo, created_at, updated_at %s ORDER BY created_at DESC LIMIT %d OFFSET %d", base, size, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	return students, total, nil
}

// FindByID fetches a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT student_id, student_number, full_name, gender, birth_date, contact_email, student_photo, created_at, updated_at FROM students WHERE student_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByNumber checks whether another student uses the same student number.
func (r *StudentRepository) ExistsByNumber(ctx context.Context, number string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM students WHERE student_number = $1"
	args := []interface{}{number}
	if excludeID > 0 {
		query += " AND student_id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student number: %w", err)
	}
	return true, nil
}

// ExistsByEmail checks whether another student uses the same contact email.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM students WHERE LOWER(contact_email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID > 0 {
		query += " AND student_id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student email: %w", err)
	}
	return true, nil
}

// Create inserts a new student and fills in the generated id and timestamps.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	const query = `INSERT INTO students (student_number, full_name, gender, birth_date, contact_email, student_photo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING student_id`
	if err := r.db.GetContext(ctx, &student.StudentID, query, student.StudentNumber, student.FullName, student.Gender, student.BirthDate, student.ContactEmail, student.StudentPhoto, student.CreatedAt, student.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "Student already exists")
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET student_number = :student_number, full_name = :full_name, gender = :gender, birth_date = :birth_date, contact_email = :contact_email, student_photo = :student_photo, updated_at = :updated_at WHERE student_id = :student_id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "Student already exists")
		}
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student; it reports whether a row was deleted.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE student_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	return affected > 0, nil
}

// ListFeatures loads the per-student feature matrix consumed by the
// clustering diagnostic. Students with no activity data fall back to the
// neutral defaults the analytics pipeline uses.
func (r *StudentRepository) ListFeatures(ctx context.Context, limit int) ([]models.StudentFeatures, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT
			s.student_id,
			COALESCE(m.attendance_percentage, 75.0) AS attendance_percentage,
			COALESCE(m.average_score, 50.0) AS average_score,
			COALESCE(m.average_submission_status_score, 1.0) AS average_submission_status_score,
			COALESCE(m.submission_rate, 100.0) AS submission_rate
		FROM students s
		LEFT JOIN student_metrics m ON m.student_id = s.student_id
		ORDER BY s.student_id
		LIMIT %d`, limit)

	var features []models.StudentFeatures
	if err := r.db.SelectContext(ctx, &features, query); err != nil {
		return nil, fmt.Errorf("list student features: %w", err)
	}
	return features, nil
}
