package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

// DepartmentRepository manages persistence for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns departments ordered by name with the total count.
func (r *DepartmentRepository) List(ctx context.Context, page, limit int) ([]models.Department, int64, error) {
	_, size, offset := clampPage(page, limit)

	query := fmt.Sprintf("SELECT department_id, name, department_abbreviation FROM departments ORDER BY name ASC LIMIT %d OFFSET %d", size, offset)
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM departments"); err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}

	return departments, total, nil
}

// FindByID fetches a department by id.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	const query = `SELECT department_id, name, department_abbreviation FROM departments WHERE department_id = $1`
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		return nil, err
	}
	return &dept, nil
}

// ExistsByName checks whether another department uses the same name.
func (r *DepartmentRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM departments WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID > 0 {
		query += " AND department_id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check department name: %w", err)
	}
	return true, nil
}

// ExistsByAbbreviation checks whether another department uses the same abbreviation.
func (r *DepartmentRepository) ExistsByAbbreviation(ctx context.Context, abbreviation string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM departments WHERE LOWER(department_abbreviation) = LOWER($1)"
	args := []interface{}{abbreviation}
	if excludeID > 0 {
		query += " AND department_id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check department abbreviation: %w", err)
	}
	return true, nil
}

// Create inserts a new department and fills in the generated id.
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	const query = `INSERT INTO departments (name, department_abbreviation) VALUES ($1, $2) RETURNING department_id`
	if err := r.db.GetContext(ctx, &dept.DepartmentID, query, dept.Name, dept.Abbreviation); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "Department already exists")
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// Update modifies an existing department.
func (r *DepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	const query = `UPDATE departments SET name = :name, department_abbreviation = :department_abbreviation WHERE department_id = :department_id`
	if _, err := r.db.NamedExecContext(ctx, query, dept); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "Department already exists")
		}
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// Delete removes a department; it reports whether a row was deleted.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE department_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete department: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete department: %w", err)
	}
	return affected > 0, nil
}
