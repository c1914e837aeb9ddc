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

type programRepository interface {
	List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Program, error)
	ExistsByAbbreviation(ctx context.Context, abbreviation string, excludeID int64) (bool, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type departmentFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Department, error)
}

// ProgramService orchestrates program operations.
type ProgramService struct {
	repo        programRepository
	departments departmentFinder
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewProgramService constructs a ProgramService.
func NewProgramService(repo programRepository, departments departmentFinder, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, departments: departments, validator: validate, logger: logger}
}

// List returns programs plus pagination data.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, *models.Pagination, error) {
	programs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, wrapRepo(err, "failed to list programs")
	}
	return programs, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get returns a program by id.
func (s *ProgramService) Get(ctx context.Context, id int64) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Program not found")
		}
		return nil, wrapRepo(err, "failed to load program")
	}
	return program, nil
}

// Create registers a new program.
func (s *ProgramService) Create(ctx context.Context, req models.CreateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByAbbreviation(ctx, req.Abbreviation, 0)
	if err != nil {
		return nil, wrapRepo(err, "failed to check program abbreviation")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Program abbreviation already exists")
	}

	program := &models.Program{
		DepartmentID: req.DepartmentID,
		Name:         strings.TrimSpace(req.Name),
		Description:  normalizeOptional(req.Description),
		Abbreviation: strings.TrimSpace(req.Abbreviation),
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, wrapRepo(err, "failed to create program")
	}
	return program, nil
}

// Update modifies an existing program.
func (s *ProgramService) Update(ctx context.Context, id int64, req models.UpdateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}

	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DepartmentID != nil {
		if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
			return nil, err
		}
		program.DepartmentID = req.DepartmentID
	}
	if req.Abbreviation != nil {
		abbreviation := strings.TrimSpace(*req.Abbreviation)
		exists, err := s.repo.ExistsByAbbreviation(ctx, abbreviation, id)
		if err != nil {
			return nil, wrapRepo(err, "failed to check program abbreviation")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Program abbreviation already exists")
		}
		program.Abbreviation = abbreviation
	}
	if req.Name != nil {
		program.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		program.Description = normalizeOptional(req.Description)
	}

	if err := s.repo.Update(ctx, program); err != nil {
		return nil, wrapRepo(err, "failed to update program")
	}
	return program, nil
}

// Delete removes a program.
func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapRepo(err, "failed to delete program")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "Program not found")
	}
	return nil
}

func (s *ProgramService) checkDepartment(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.departments.FindByID(ctx, *id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrValidation, "Department does not exist")
		}
		return wrapRepo(err, "failed to check department")
	}
	return nil
}
