package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

type pagedStudentLister struct {
	all   []models.Student
	pages []models.StudentFilter
}

func (s *pagedStudentLister) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error) {
	s.pages = append(s.pages, filter)
	page, limit := models.ClampPageLimit(filter.Page, filter.Limit)
	start := (page - 1) * limit
	if start >= len(s.all) {
		return nil, int64(len(s.all)), nil
	}
	end := start + limit
	if end > len(s.all) {
		end = len(s.all)
	}
	return s.all[start:end], int64(len(s.all)), nil
}

type pagedCourseLister struct {
	all []models.Course
}

func (s *pagedCourseLister) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int64, error) {
	page, limit := models.ClampPageLimit(filter.Page, filter.Limit)
	start := (page - 1) * limit
	if start >= len(s.all) {
		return nil, int64(len(s.all)), nil
	}
	end := start + limit
	if end > len(s.all) {
		end = len(s.all)
	}
	return s.all[start:end], int64(len(s.all)), nil
}

func csvLineCount(data []byte) int {
	return len(strings.Split(strings.TrimRight(string(data), "\n"), "\n"))
}

func TestStudentExportDrainsEveryPage(t *testing.T) {
	lister := &pagedStudentLister{}
	for i := 0; i < 250; i++ {
		lister.all = append(lister.all, models.Student{
			StudentNumber: fmt.Sprintf("2025-%05d", i+1),
			FullName:      fmt.Sprintf("Student %d", i+1),
			ContactEmail:  fmt.Sprintf("student%d@example.edu", i+1),
		})
	}
	svc := NewExportService(lister, &pagedCourseLister{}, nil)

	result, err := svc.Students(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, 251, csvLineCount(result.Data))
	require.Len(t, lister.pages, 3)
	assert.Equal(t, 1, lister.pages[0].Page)
	assert.Equal(t, 3, lister.pages[2].Page)
}

func TestCourseExportDrainsEveryPage(t *testing.T) {
	courses := &pagedCourseLister{}
	for i := 0; i < 101; i++ {
		courses.all = append(courses.all, models.Course{
			CourseCode: fmt.Sprintf("CS%03d", i+1),
			Title:      fmt.Sprintf("Course %d", i+1),
		})
	}
	svc := NewExportService(&pagedStudentLister{}, courses, nil)

	result, err := svc.Courses(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, 102, csvLineCount(result.Data))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&pagedStudentLister{}, &pagedCourseLister{}, nil)

	_, err := svc.Students(context.Background(), "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
