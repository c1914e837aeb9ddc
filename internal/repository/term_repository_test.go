package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestListTermsFiltersByYear(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"term_id", "school_year", "semester", "start_date", "end_date", "is_active", "created_at", "updated_at"}).
		AddRow(1, "2025-2026", "1st", now, now.AddDate(0, 4, 0), true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT term_id, school_year, semester, start_date, end_date, is_active, created_at, updated_at FROM school_terms WHERE 1=1 AND school_year = $1 ORDER BY start_date DESC LIMIT 20 OFFSET 0")).
		WithArgs("2025-2026").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM school_terms WHERE 1=1 AND school_year = $1")).
		WithArgs("2025-2026").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	terms, total, err := repo.List(context.Background(), models.SchoolTermFilter{SchoolYear: "2025-2026"})
	require.NoError(t, err)
	assert.Len(t, terms, 1)
	assert.Equal(t, int64(1), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTermReturnsGeneratedID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery("INSERT INTO school_terms").
		WillReturnRows(sqlmock.NewRows([]string{"term_id"}).AddRow(7))

	term := &models.SchoolTerm{
		SchoolYear: "2025-2026",
		Semester:   "1st",
		StartDate:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
	}
	err := repo.Create(context.Background(), term)
	require.NoError(t, err)
	assert.Equal(t, int64(7), term.TermID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTermTranslatesUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery("INSERT INTO school_terms").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "school_terms_school_year_semester_key"})

	err := repo.Create(context.Background(), &models.SchoolTerm{SchoolYear: "2025-2026", Semester: "1st"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, "School term already exists for this year and semester", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByYearSemester(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM school_terms WHERE school_year = $1 AND LOWER(semester) = LOWER($2) LIMIT 1")).
		WithArgs("2025-2026", "1st").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByYearSemester(context.Background(), "2025-2026", "1st", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTermReportsMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM school_terms WHERE term_id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.Delete(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}
