package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

func TestListStudentsAppliesSearchFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"student_id", "student_number", "full_name", "gender", "birth_date", "contact_email", "student_photo", "created_at", "updated_at"}).
		AddRow(1, "2021-00042", "Maria C. Santos", "Female", nil, "maria@example.edu", nil, now, now)

	mock.ExpectQuery("SELECT student_id, student_number, full_name").
		WithArgs("%santos%").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("%santos%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Search: "Santos"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "2021-00042", students[0].StudentNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentTranslatesUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_student_number_key"})

	student := &models.Student{StudentNumber: "2021-00042", FullName: "Maria C. Santos", ContactEmail: "maria@example.edu"}
	err := repo.Create(context.Background(), student)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, "Student already exists", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFeaturesFillsDefaultsForQuietStudents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "attendance_percentage", "average_score", "average_submission_status_score", "submission_rate"}).
		AddRow(1, 92.5, 81.0, 0.4, 95.0).
		AddRow(2, 75.0, 50.0, 1.0, 100.0)

	mock.ExpectQuery("LEFT JOIN student_metrics").WillReturnRows(rows)

	features, err := repo.ListFeatures(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, 75.0, features[1].AttendancePercentage)
	assert.Equal(t, 100.0, features[1].SubmissionRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
