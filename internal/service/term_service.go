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

type termRepository interface {
	List(ctx context.Context, filter models.SchoolTermFilter) ([]models.SchoolTerm, int64, error)
	FindByID(ctx context.Context, id int64) (*models.SchoolTerm, error)
	ExistsByYearSemester(ctx context.Context, schoolYear, semester string, excludeID int64) (bool, error)
	Create(ctx context.Context, term *models.SchoolTerm) error
	Update(ctx context.Context, term *models.SchoolTerm) error
	ToggleStatus(ctx context.Context, id int64) (*models.SchoolTerm, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// TermService orchestrates school term operations.
type TermService struct {
	repo      termRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermService constructs a TermService.
func NewTermService(repo termRepository, validate *validator.Validate, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, validator: validate, logger: logger}
}

// List returns school terms plus pagination data.
func (s *TermService) List(ctx context.Context, filter models.SchoolTermFilter) ([]models.SchoolTerm, *models.Pagination, error) {
	terms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, wrapRepo(err, "failed to list school terms")
	}
	return terms, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get returns a school term by id.
func (s *TermService) Get(ctx context.Context, id int64) (*models.SchoolTerm, error) {
	term, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "School term not found")
		}
		return nil, wrapRepo(err, "failed to load school term")
	}
	return term, nil
}

// Create registers a new school term. The (school_year, semester) pair must
// be unused and the start date must precede the end date.
func (s *TermService) Create(ctx context.Context, req models.CreateSchoolTermRequest) (*models.SchoolTerm, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school term payload")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end date")
	}
	if !startDate.Before(endDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be before end date")
	}

	schoolYear := strings.TrimSpace(req.SchoolYear)
	semester := strings.TrimSpace(req.Semester)
	exists, err := s.repo.ExistsByYearSemester(ctx, schoolYear, semester, 0)
	if err != nil {
		return nil, wrapRepo(err, "failed to check school term")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "School term already exists for this year and semester")
	}

	term := &models.SchoolTerm{
		SchoolYear: schoolYear,
		Semester:   semester,
		StartDate:  startDate,
		EndDate:    endDate,
	}
	if req.IsActive != nil {
		term.IsActive = *req.IsActive
	}
	if err := s.repo.Create(ctx, term); err != nil {
		return nil, wrapRepo(err, "failed to create school term")
	}
	return term, nil
}

// Update modifies an existing school term.
func (s *TermService) Update(ctx context.Context, id int64, req models.UpdateSchoolTermRequest) (*models.SchoolTerm, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school term payload")
	}

	term, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	schoolYear := term.SchoolYear
	semester := term.Semester
	if req.SchoolYear != nil {
		schoolYear = strings.TrimSpace(*req.SchoolYear)
	}
	if req.Semester != nil {
		semester = strings.TrimSpace(*req.Semester)
	}
	if schoolYear != term.SchoolYear || semester != term.Semester {
		exists, err := s.repo.ExistsByYearSemester(ctx, schoolYear, semester, id)
		if err != nil {
			return nil, wrapRepo(err, "failed to check school term")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "School term already exists for this year and semester")
		}
	}

	startDate := term.StartDate
	endDate := term.EndDate
	if req.StartDate != nil {
		if startDate, err = parseDate(*req.StartDate); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
		}
	}
	if req.EndDate != nil {
		if endDate, err = parseDate(*req.EndDate); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end date")
		}
	}
	if !startDate.Before(endDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be before end date")
	}

	term.SchoolYear = schoolYear
	term.Semester = semester
	term.StartDate = startDate
	term.EndDate = endDate
	if req.IsActive != nil {
		term.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, term); err != nil {
		return nil, wrapRepo(err, "failed to update school term")
	}
	return term, nil
}

// ToggleStatus flips a term's active flag.
func (s *TermService) ToggleStatus(ctx context.Context, id int64) (*models.SchoolTerm, error) {
	term, err := s.repo.ToggleStatus(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "School term not found")
		}
		return nil, wrapRepo(err, "failed to toggle school term")
	}
	return term, nil
}

// Delete removes a school term.
func (s *TermService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapRepo(err, "failed to delete school term")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "School term not found")
	}
	return nil
}
