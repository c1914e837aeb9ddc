package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context, page, limit int) ([]models.Department, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	ExistsByAbbreviation(ctx context.Context, abbreviation string, excludeID int64) (bool, error)
	Create(ctx context.Context, dept *models.Department) error
	Update(ctx context.Context, dept *models.Department) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// DepartmentService orchestrates department operations.
type DepartmentService struct {
	repo      departmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(repo departmentRepository, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, validator: validate, logger: logger}
}

// List returns departments plus pagination data.
func (s *DepartmentService) List(ctx context.Context, page, limit int) ([]models.Department, *models.Pagination, error) {
	departments, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, nil, wrapRepo(err, "failed to list departments")
	}
	return departments, models.NewPagination(page, limit, total), nil
}

// Get returns a department by id.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*models.Department, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Department not found")
		}
		return nil, wrapRepo(err, "failed to load department")
	}
	return dept, nil
}

// Create registers a new department.
func (s *DepartmentService) Create(ctx context.Context, req models.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	if err := s.ensureUnique(ctx, req.Name, req.Abbreviation, 0); err != nil {
		return nil, err
	}

	dept := &models.Department{
		Name:         strings.TrimSpace(req.Name),
		Abbreviation: strings.TrimSpace(req.Abbreviation),
	}
	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, wrapRepo(err, "failed to create department")
	}
	return dept, nil
}

// Update modifies an existing department.
func (s *DepartmentService) Update(ctx context.Context, id int64, req models.UpdateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}

	dept, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := dept.Name
	abbreviation := dept.Abbreviation
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Abbreviation != nil {
		abbreviation = strings.TrimSpace(*req.Abbreviation)
	}
	if err := s.ensureUnique(ctx, name, abbreviation, id); err != nil {
		return nil, err
	}

	dept.Name = name
	dept.Abbreviation = abbreviation
	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, wrapRepo(err, "failed to update department")
	}
	return dept, nil
}

// Delete removes a department.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapRepo(err, "failed to delete department")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "Department not found")
	}
	return nil
}

func (s *DepartmentService) ensureUnique(ctx context.Context, name, abbreviation string, excludeID int64) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return wrapRepo(err, "failed to check department name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Department name already exists")
	}
	exists, err = s.repo.ExistsByAbbreviation(ctx, abbreviation, excludeID)
	if err != nil {
		return wrapRepo(err, "failed to check department abbreviation")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Department abbreviation already exists")
	}
	return nil
}
