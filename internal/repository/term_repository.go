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

// TermRepository manages persistence for school terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository constructs a TermRepository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// List returns school terms ordered by start date descending with a total count.
func (r *TermRepository) List(ctx context.Context, filter models.SchoolTermFilter) ([]models.SchoolTerm, int64, error) {
	base := "FROM school_terms WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SchoolYear != "" {
		conditions = append(conditions, fmt.Sprintf("school_year = $%d", len(args)+1))
		args = append(args, filter.SchoolYear)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.IsActive)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	_, size, offset := clampPage(filter.Page, filter.Limit)

	query := fmt.Sprintf("SELECT term_id, school_year, semester, start_date, end_date, is_active, created_at, updated_at %s ORDER BY start_date DESC LIMIT %d OFFSET %d", base, size, offset)
	var terms []models.SchoolTerm
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list school terms: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count school terms: %w", err)
	}

	return terms, total, nil
}

// FindByID fetches a school term by id.
func (r *TermRepository) FindByID(ctx context.Context, id int64) (*models.SchoolTerm, error) {
	const query = `SELECT term_id, school_year, semester, start_date, end_date, is_active, created_at, updated_at FROM school_terms WHERE term_id = $1`
	var term models.SchoolTerm
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// ExistsByYearSemester checks whether a (school_year, semester) pair is taken.
func (r *TermRepository) ExistsByYearSemester(ctx context.Context, schoolYear, semester string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM school_terms WHERE school_year = $1 AND LOWER(semester) = LOWER($2)"
	args := []interface{}{schoolYear, semester}
	if excludeID > 0 {
		query += " AND term_id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check school term: %w", err)
	}
	return true, nil
}

// Create inserts a new school term and fills in the generated id.
func (r *TermRepository) Create(ctx context.Context, term *models.SchoolTerm) error {
	now := time.Now().UTC()
	term.CreatedAt = now
	term.UpdatedAt = now

	const query = `INSERT INTO school_terms (school_year, semester, start_date, end_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING term_id`
	if err := r.db.GetContext(ctx, &term.TermID, query, term.SchoolYear, term.Semester, term.StartDate, term.EndDate, term.IsActive, term.CreatedAt, term.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "School term already exists for this year and semester")
		}
		return fmt.Errorf("create school term: %w", err)
	}
	return nil
}

// Update modifies an existing school term.
func (r *TermRepository) Update(ctx context.Context, term *models.SchoolTerm) error {
	term.UpdatedAt = time.Now().UTC()
	const query = `UPDATE school_terms SET school_year = :school_year, semester = :semester, start_date = :start_date, end_date = :end_date, is_active = :is_active, updated_at = :updated_at WHERE term_id = :term_id`
	if _, err := r.db.NamedExecContext(ctx, query, term); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "School term already exists for this year and semester")
		}
		return fmt.Errorf("update school term: %w", err)
	}
	return nil
}

// ToggleStatus flips the is_active flag and returns the stored value.
func (r *TermRepository) ToggleStatus(ctx context.Context, id int64) (*models.SchoolTerm, error) {
	const query = `UPDATE school_terms SET is_active = NOT is_active, updated_at = $2 WHERE term_id = $1
		RETURNING term_id, school_year, semester, start_date, end_date, is_active, created_at, updated_at`
	var term models.SchoolTerm
	if err := r.db.GetContext(ctx, &term, query, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &term, nil
}

// Delete removes a school term; it reports whether a row was deleted.
func (r *TermRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM school_terms WHERE term_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete school term: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete school term: %w", err)
	}
	return affected > 0, nil
}
