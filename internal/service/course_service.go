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

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type specializationFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ProgramSpecialization, error)
}

type termFinder interface {
	FindByID(ctx context.Context, id int64) (*models.SchoolTerm, error)
}

// CourseService orchestrates catalog course operations.
type CourseService struct {
	repo            courseRepository
	specializations specializationFinder
	terms           termFinder
	validator       *validator.Validate
	logger          *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, specializations specializationFinder, terms termFinder, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, specializations: specializations, terms: terms, validator: validate, logger: logger}
}

// List returns courses plus pagination data.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, wrapRepo(err, "failed to list courses")
	}
	return courses, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, wrapRepo(err, "failed to load course")
	}
	return course, nil
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := s.checkReferences(ctx, req.SpecializationID, req.TermID); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByCode(ctx, req.CourseCode, 0)
	if err != nil {
		return nil, wrapRepo(err, "failed to check course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Course code already exists")
	}

	course := &models.Course{
		Title:            strings.TrimSpace(req.Title),
		CourseCode:       strings.ToUpper(strings.TrimSpace(req.CourseCode)),
		Description:      normalizeOptional(req.Description),
		TermID:           req.TermID,
		SpecializationID: req.SpecializationID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, wrapRepo(err, "failed to create course")
	}
	return course, nil
}

// Update modifies an existing course.
func (s *CourseService) Update(ctx context.Context, id int64, req models.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, req.SpecializationID, req.TermID); err != nil {
		return nil, err
	}
	if req.CourseCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.CourseCode))
		exists, err := s.repo.ExistsByCode(ctx, code, id)
		if err != nil {
			return nil, wrapRepo(err, "failed to check course code")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Course code already exists")
		}
		course.CourseCode = code
	}
	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		course.Description = normalizeOptional(req.Description)
	}
	if req.TermID != nil {
		course.TermID = req.TermID
	}
	if req.SpecializationID != nil {
		course.SpecializationID = req.SpecializationID
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, wrapRepo(err, "failed to update course")
	}
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapRepo(err, "failed to delete course")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "Course not found")
	}
	return nil
}

// checkReferences surfaces dangling specialization/term references as
// validation errors instead of driver-level foreign key failures.
func (s *CourseService) checkReferences(ctx context.Context, specializationID, termID *int64) error {
	if specializationID != nil {
		if _, err := s.specializations.FindByID(ctx, *specializationID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrValidation, "Specialization does not exist")
			}
			return wrapRepo(err, "failed to check specialization")
		}
	}
	if termID != nil {
		if _, err := s.terms.FindByID(ctx, *termID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrValidation, "School term does not exist")
			}
			return wrapRepo(err, "failed to check school term")
		}
	}
	return nil
}
