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

func TestRegisterRunsInOneTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
	mock.ExpectQuery("INSERT INTO user_profiles").
		WillReturnRows(sqlmock.NewRows([]string{"profile_id"}).AddRow(4))
	mock.ExpectExec("INSERT INTO user_approvals").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewUserRepository(db)
	user := &models.User{Name: "Ana Reyes", Email: "ana@example.edu", PasswordHash: "hash", RoleID: 2}
	profile := &models.UserProfile{ProfileType: "FACULTY"}

	err := repo.Register(context.Background(), user, profile, "Faculty registration pending admin approval")
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.UserID)
	assert.Equal(t, int64(4), profile.ProfileID)
	assert.Equal(t, int64(9), profile.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterTranslatesDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	mock.ExpectRollback()

	repo := NewUserRepository(db)
	err := repo.Register(context.Background(), &models.User{Email: "dup@example.edu"}, &models.UserProfile{}, "note")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, "Email already registered", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRollsBackWhenProfileInsertFails(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
	mock.ExpectQuery("INSERT INTO user_profiles").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	repo := NewUserRepository(db)
	err := repo.Register(context.Background(), &models.User{Email: "ana@example.edu"}, &models.UserProfile{}, "note")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveMissingUserRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET is_approved").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewUserRepository(db)
	found, err := repo.Approve(context.Background(), 77, "Approved by admin")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveAppendsAuditRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET is_approved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_approvals").
		WithArgs(int64(5), "Approved by admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewUserRepository(db)
	found, err := repo.Approve(context.Background(), 5, "Approved by admin")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetAllPasswordsReportsRowCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE users SET password_hash").
		WillReturnResult(sqlmock.NewResult(0, 12))

	repo := NewUserRepository(db)
	count, err := repo.ResetAllPasswords(context.Background(), "new-hash")
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDLoadsProfileContactEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	columns := []string{
		"user_id", "name", "email", "password_hash", "role_id", "profile_pic", "phone", "bio", "is_approved", "created_at", "updated_at",
		"role_name", "profile_type", "department_id", "term_start", "term_end", "designation", "contact_email",
	}
	mock.ExpectQuery("p.contact_email\\s+FROM users u").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			5, "Ana Reyes", "ana@example.edu", "hash", 2, nil, nil, nil, true, now, now,
			"FACULTY", "FACULTY", 3, now, now, "Instructor I", "ana.desk@example.edu",
		))

	repo := NewUserRepository(db)
	detail, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, detail.ContactEmail)
	assert.Equal(t, "ana.desk@example.edu", *detail.ContactEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCapsOversizedLimit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery("LIMIT 100 OFFSET 0").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email", "password_hash", "role_id", "profile_pic", "phone", "bio", "is_approved", "created_at", "updated_at", "role_name"}))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(500))

	repo := NewUserRepository(db)
	_, total, err := repo.List(context.Background(), models.UserFilter{Page: 1, Limit: 150})
	require.NoError(t, err)
	assert.Equal(t, int64(500), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
