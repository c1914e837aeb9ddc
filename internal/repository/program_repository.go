package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

// ProgramRepository manages persistence for programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs a ProgramRepository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns programs ordered by name along with the total count.
func (r *ProgramRepository) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int64, error) {
	base := "FROM programs WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, *filter.DepartmentID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	_, size, offset := clampPage(filter.Page, filter.Limit)

	query := fmt.Sprintf("SELECT program_id, department_id, name, description, program_abbreviation %s ORDER BY name ASC LIMIT %d OFFSET %d", base, size, offset)
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list programs: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count programs: %w", err)
	}

	return programs, total, nil
}

// FindByID fetches a program by id.
func (r *ProgramRepository) FindByID(ctx context.Context, id int64) (*models.Program, error) {
	const query = `SELECT program_id, department_id, name, description, program_abbreviation FROM programs WHERE program_id = $1`
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, err
	}
	return &program, nil
}

// ExistsByAbbreviation checks whether another program uses the same abbreviation.
func (r *ProgramRepository) ExistsByAbbreviation(ctx context.Context, abbreviation string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM programs WHERE LOWER(program_abbreviation) = LOWER($1)"
	args := []interface{}{abbreviation}
	if excludeID > 0 {
		query += " AND program_id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check program abbreviation: %w", err)
	}
	return true, nil
}

// Create inserts a new program and fills in the generated id.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	const query = `INSERT INTO programs (department_id, name, description, program_abbreviation)
		VALUES ($1, $2, $3, $4) RETURNING program_id`
	if err := r.db.GetContext(ctx, &program.ProgramID, query, program.DepartmentID, program.Name, program.Description, program.Abbreviation); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "Program already exists")
		}
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// Update modifies an existing program.
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	const query = `UPDATE programs SET department_id = :department_id, name = :name, description = :description, program_abbreviation = :program_abbreviation WHERE program_id = :program_id`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "Program already exists")
		}
		return fmt.Errorf("update program: %w", err)
	}
	return nil
}

// Delete removes a program; it reports whether a row was deleted.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE program_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete program: %w", err)
	}
	return affected > 0, nil
}
