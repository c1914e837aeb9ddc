package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

type studentRepoStub struct {
	students     map[int64]models.Student
	takenNumbers map[string]bool
	takenEmails  map[string]bool
	created      *models.Student
}

func (s *studentRepoStub) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error) {
	var out []models.Student
	for _, st := range s.students {
		out = append(out, st)
	}
	return out, int64(len(out)), nil
}

func (s *studentRepoStub) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if st, ok := s.students[id]; ok {
		return &st, nil
	}
	return nil, sql.ErrNoRows
}

func (s *studentRepoStub) ExistsByNumber(ctx context.Context, number string, excludeID int64) (bool, error) {
	return s.takenNumbers[number], nil
}

func (s *studentRepoStub) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return s.takenEmails[email], nil
}

func (s *studentRepoStub) Create(ctx context.Context, student *models.Student) error {
	student.StudentID = 11
	s.created = student
	return nil
}

func (s *studentRepoStub) Update(ctx context.Context, student *models.Student) error {
	s.students[student.StudentID] = *student
	return nil
}

func (s *studentRepoStub) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.students[id]; !ok {
		return false, nil
	}
	delete(s.students, id)
	return true, nil
}

func newStudentRepoStub() *studentRepoStub {
	return &studentRepoStub{
		students:     map[int64]models.Student{},
		takenNumbers: map[string]bool{},
		takenEmails:  map[string]bool{},
	}
}

func TestCreateStudentAssemblesFullName(t *testing.T) {
	repo := newStudentRepoStub()
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Create(context.Background(), models.CreateStudentRequest{
		StudentNumber: "2021-00123",
		FirstName:     "Maria",
		MiddleInitial: "C",
		LastName:      "Santos",
		Suffix:        "Jr",
		Email:         "maria.santos@example.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), student.StudentID)
	assert.Equal(t, "Maria C. Santos Jr", student.FullName)
}

func TestCreateStudentRejectsDuplicateNumber(t *testing.T) {
	repo := newStudentRepoStub()
	repo.takenNumbers["2021-00123"] = true
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateStudentRequest{
		StudentNumber: "2021-00123",
		FirstName:     "Maria",
		LastName:      "Santos",
		Email:         "maria.santos@example.edu",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Nil(t, repo.created)
}

func TestCreateStudentRejectsMalformedNumber(t *testing.T) {
	repo := newStudentRepoStub()
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateStudentRequest{
		StudentNumber: "AB-123",
		FirstName:     "Maria",
		LastName:      "Santos",
		Email:         "maria.santos@example.edu",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestUpdateStudentNotFound(t *testing.T) {
	repo := newStudentRepoStub()
	svc := NewStudentService(repo, nil, nil)

	name := "Renamed"
	_, err := svc.Update(context.Background(), 404, models.UpdateStudentRequest{FullName: &name})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Student not found", appErr.Message)
}

func TestDeleteStudentTwiceReturnsNotFound(t *testing.T) {
	repo := newStudentRepoStub()
	repo.students[8] = models.Student{StudentID: 8}
	svc := NewStudentService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 8))
	err := svc.Delete(context.Background(), 8)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
