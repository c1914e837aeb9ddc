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

type specializationRepository interface {
	List(ctx context.Context, filter models.SpecializationFilter) ([]models.ProgramSpecialization, int64, error)
	FindByID(ctx context.Context, id int64) (*models.ProgramSpecialization, error)
	ExistsByAbbreviation(ctx context.Context, abbreviation string, excludeID int64) (bool, error)
	Create(ctx context.Context, spec *models.ProgramSpecialization) error
	Update(ctx context.Context, spec *models.ProgramSpecialization) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type programFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Program, error)
}

// SpecializationService orchestrates program specialization operations.
type SpecializationService struct {
	repo      specializationRepository
	programs  programFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSpecializationService constructs a SpecializationService.
func NewSpecializationService(repo specializationRepository, programs programFinder, validate *validator.Validate, logger *zap.Logger) *SpecializationService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpecializationService{repo: repo, programs: programs, validator: validate, logger: logger}
}

// List returns specializations plus pagination data.
func (s *SpecializationService) List(ctx context.Context, filter models.SpecializationFilter) ([]models.ProgramSpecialization, *models.Pagination, error) {
	specializations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, wrapRepo(err, "failed to list specializations")
	}
	return specializations, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get returns a specialization by id.
func (s *SpecializationService) Get(ctx context.Context, id int64) (*models.ProgramSpecialization, error) {
	spec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Specialization not found")
		}
		return nil, wrapRepo(err, "failed to load specialization")
	}
	return spec, nil
}

// Create registers a new specialization under an existing program.
func (s *SpecializationService) Create(ctx context.Context, req models.CreateSpecializationRequest) (*models.ProgramSpecialization, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid specialization payload")
	}
	if _, err := s.programs.FindByID(ctx, req.ProgramID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Program does not exist")
		}
		return nil, wrapRepo(err, "failed to check program")
	}
	exists, err := s.repo.ExistsByAbbreviation(ctx, req.Abbreviation, 0)
	if err != nil {
		return nil, wrapRepo(err, "failed to check specialization abbreviation")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Specialization abbreviation already exists")
	}

	spec := &models.ProgramSpecialization{
		ProgramID:    req.ProgramID,
		Name:         strings.TrimSpace(req.Name),
		Description:  normalizeOptional(req.Description),
		Abbreviation: strings.TrimSpace(req.Abbreviation),
	}
	if err := s.repo.Create(ctx, spec); err != nil {
		return nil, wrapRepo(err, "failed to create specialization")
	}
	return spec, nil
}

// Update modifies an existing specialization.
func (s *SpecializationService) Update(ctx context.Context, id int64, req models.UpdateSpecializationRequest) (*models.ProgramSpecialization, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid specialization payload")
	}

	spec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ProgramID != nil {
		if _, err := s.programs.FindByID(ctx, *req.ProgramID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrValidation, "Program does not exist")
			}
			return nil, wrapRepo(err, "failed to check program")
		}
		spec.ProgramID = *req.ProgramID
	}
	if req.Abbreviation != nil {
		abbreviation := strings.TrimSpace(*req.Abbreviation)
		exists, err := s.repo.ExistsByAbbreviation(ctx, abbreviation, id)
		if err != nil {
			return nil, wrapRepo(err, "failed to check specialization abbreviation")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Specialization abbreviation already exists")
		}
		spec.Abbreviation = abbreviation
	}
	if req.Name != nil {
		spec.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		spec.Description = normalizeOptional(req.Description)
	}

	if err := s.repo.Update(ctx, spec); err != nil {
		return nil, wrapRepo(err, "failed to update specialization")
	}
	return spec, nil
}

// Delete removes a specialization.
func (s *SpecializationService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapRepo(err, "failed to delete specialization")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "Specialization not found")
	}
	return nil
}
