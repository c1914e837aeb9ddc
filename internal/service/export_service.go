package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
	"github.com/registra/records-api/pkg/export"
)

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error)
}

type courseLister interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int64, error)
}

// ExportResult carries rendered bytes with transport metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders student and course dumps as CSV or PDF.
type ExportService struct {
	students studentLister
	courses  courseLister
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(students studentLister, courses courseLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{students: students, courses: courses, logger: logger}
}

// exportPageSize is the fetch size used when draining a listing for export.
const exportPageSize = 100

// Students exports the full student roster in the requested format.
func (s *ExportService) Students(ctx context.Context, format string) (*ExportResult, error) {
	var students []models.Student
	for page := 1; ; page++ {
		batch, total, err := s.students.List(ctx, models.StudentFilter{Page: page, Limit: exportPageSize})
		if err != nil {
			return nil, wrapRepo(err, "failed to load students for export")
		}
		students = append(students, batch...)
		if len(batch) < exportPageSize || int64(len(students)) >= total {
			break
		}
	}

	dataset := export.Dataset{
		Title:   "Student Roster",
		Headers: []string{"Student Number", "Full Name", "Gender", "Birth Date", "Email"},
	}
	for _, st := range students {
		gender := ""
		if st.Gender != nil {
			gender = *st.Gender
		}
		birthDate := ""
		if st.BirthDate != nil {
			birthDate = st.BirthDate.Format("2006-01-02")
		}
		dataset.Rows = append(dataset.Rows, []string{st.StudentNumber, st.FullName, gender, birthDate, st.ContactEmail})
	}

	return s.render(dataset, "students", format)
}

// Courses exports the full course catalog in the requested format.
func (s *ExportService) Courses(ctx context.Context, format string) (*ExportResult, error) {
	var courses []models.Course
	for page := 1; ; page++ {
		batch, total, err := s.courses.List(ctx, models.CourseFilter{Page: page, Limit: exportPageSize})
		if err != nil {
			return nil, wrapRepo(err, "failed to load courses for export")
		}
		courses = append(courses, batch...)
		if len(batch) < exportPageSize || int64(len(courses)) >= total {
			break
		}
	}

	dataset := export.Dataset{
		Title:   "Course Catalog",
		Headers: []string{"Course Code", "Title", "Description", "Term", "Specialization"},
	}
	for _, c := range courses {
		description := ""
		if c.Description != nil {
			description = *c.Description
		}
		dataset.Rows = append(dataset.Rows, []string{
			c.CourseCode,
			c.Title,
			description,
			formatOptionalID(c.TermID),
			formatOptionalID(c.SpecializationID),
		})
	}

	return s.render(dataset, "courses", format)
}

func (s *ExportService) render(dataset export.Dataset, name, format string) (*ExportResult, error) {
	now := time.Now().UTC()
	stamp := now.Format("20060102")

	switch strings.ToLower(format) {
	case "", "csv":
		data, err := export.CSV(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("%s-%s.csv", name, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "pdf":
		data, err := export.PDF(dataset, now)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("%s-%s.pdf", name, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
