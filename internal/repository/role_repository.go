package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/registra/records-api/internal/models"
)

// RoleRepository reads the seeded roles table.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository constructs a RoleRepository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// List returns all roles ordered by name.
func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	const query = `SELECT role_id, name FROM roles ORDER BY name ASC`
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// FindByID fetches a role by id.
func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*models.Role, error) {
	const query = `SELECT role_id, name FROM roles WHERE role_id = $1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName fetches a role by its name.
func (r *RoleRepository) FindByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	const query = `SELECT role_id, name FROM roles WHERE name = $1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, name); err != nil {
		return nil, err
	}
	return &role, nil
}
