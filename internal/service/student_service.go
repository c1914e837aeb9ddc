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

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	ExistsByNumber(ctx context.Context, number string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// StudentService orchestrates student record operations.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students plus pagination data.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, wrapRepo(err, "failed to list students")
	}
	return students, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, wrapRepo(err, "failed to load student")
	}
	return student, nil
}

// Create registers a new student. The stored display name is assembled from
// the submitted name parts.
func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if err := s.ensureUnique(ctx, req.StudentNumber, req.Email, 0); err != nil {
		return nil, err
	}

	student := &models.Student{
		StudentNumber: strings.TrimSpace(req.StudentNumber),
		FullName:      models.AssembleFullName(req.FirstName, req.MiddleInitial, req.LastName, req.Suffix),
		Gender:        normalizeOptional(req.Gender),
		ContactEmail:  strings.TrimSpace(req.Email),
		StudentPhoto:  normalizeOptional(req.StudentPhoto),
	}
	if req.BirthDate != nil {
		birthDate, err := parseDate(*req.BirthDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid birth date")
		}
		student.BirthDate = &birthDate
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, wrapRepo(err, "failed to create student")
	}
	return student, nil
}

// Update modifies an existing student.
func (s *StudentService) Update(ctx context.Context, id int64, req models.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	number := student.StudentNumber
	email := student.ContactEmail
	if req.StudentNumber != nil {
		number = strings.TrimSpace(*req.StudentNumber)
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if err := s.ensureUnique(ctx, number, email, id); err != nil {
		return nil, err
	}

	student.StudentNumber = number
	student.ContactEmail = email
	if req.FullName != nil {
		student.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Gender != nil {
		student.Gender = normalizeOptional(req.Gender)
	}
	if req.BirthDate != nil {
		birthDate, err := parseDate(*req.BirthDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid birth date")
		}
		student.BirthDate = &birthDate
	}
	if req.StudentPhoto != nil {
		student.StudentPhoto = normalizeOptional(req.StudentPhoto)
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, wrapRepo(err, "failed to update student")
	}
	return student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapRepo(err, "failed to delete student")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}
	return nil
}

func (s *StudentService) ensureUnique(ctx context.Context, number, email string, excludeID int64) error {
	exists, err := s.repo.ExistsByNumber(ctx, number, excludeID)
	if err != nil {
		return wrapRepo(err, "failed to check student number")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Student number already exists")
	}
	exists, err = s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return wrapRepo(err, "failed to check student email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Student email already exists")
	}
	return nil
}
