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

// SpecializationRepository manages persistence for program specializations.
type SpecializationRepository struct {
	db *sqlx.DB
}

// NewSpecializationRepository constructs a SpecializationRepository.
func NewSpecializationRepository(db *sqlx.DB) *SpecializationRepository {
	return &SpecializationRepository{db: db}
}

// List returns specializations ordered by name along with the total count.
func (r *SpecializationRepository) List(ctx context.Context, filter models.SpecializationFilter) ([]models.ProgramSpecialization, int64, error) {
	base := "FROM program_specializations WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ProgramID != nil {
		conditions = append(conditions, fmt.Sprintf("program_id = $%d", len(args)+1))
		args = append(args, *filter.ProgramID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	_, size, offset := clampPage(filter.Page, filter.Limit)

	query := fmt.Sprintf("SELECT specialization_id, program_id, name, description, abbreviation %s ORDER BY name ASC LIMIT %d OFFSET %d", base, size, offset)
	var specializations []models.ProgramSpecialization
	if err := r.db.SelectContext(ctx, &specializations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list specializations: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count specializations: %w", err)
	}

	return specializations, total, nil
}

// FindByID fetches a specialization by id.
func (r *SpecializationRepository) FindByID(ctx context.Context, id int64) (*models.ProgramSpecialization, error) {
	const query = `SELECT specialization_id, program_id, name, description, abbreviation FROM program_specializations WHERE specialization_id = $1`
	var spec models.ProgramSpecialization
	if err := r.db.GetContext(ctx, &spec, query, id); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ExistsByAbbreviation checks whether another specialization uses the same abbreviation.
func (r *SpecializationRepository) ExistsByAbbreviation(ctx context.Context, abbreviation string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM program_specializations WHERE LOWER(abbreviation) = LOWER($1)"
	args := []interface{}{abbreviation}
	if excludeID > 0 {
		query += " AND specialization_id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check specialization abbreviation: %w", err)
	}
	return true, nil
}

// Create inserts a new specialization and fills in the generated id.
func (r *SpecializationRepository) Create(ctx context.Context, spec *models.ProgramSpecialization) error {
	const query = `INSERT INTO program_specializations (program_id, name, description, abbreviation)
		VALUES ($1, $2, $3, $4) RETURNING specialization_id`
	if err := r.db.GetContext(ctx, &spec.SpecializationID, query, spec.ProgramID, spec.Name, spec.Description, spec.Abbreviation); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "Specialization already exists")
		}
		return fmt.Errorf("create specialization: %w", err)
	}
	return nil
}

// Update modifies an existing specialization.
func (r *SpecializationRepository) Update(ctx context.Context, spec *models.ProgramSpecialization) error {
	const query = `UPDATE program_specializations SET program_id = :program_id, name = :name, description = :description, abbreviation = :abbreviation WHERE specialization_id = :specialization_id`
	if _, err := r.db.NamedExecContext(ctx, query, spec); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "Specialization already exists")
		}
		return fmt.Errorf("update specialization: %w", err)
	}
	return nil
}

// Delete removes a specialization; it reports whether a row was deleted.
func (r *SpecializationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM program_specializations WHERE specialization_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete specialization: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete specialization: %w", err)
	}
	return affected > 0, nil
}
