package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadRowsProjectsWantedColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "programs.csv",
		"program_id,extra,department_id,name,description,program_abbreviation\n"+
			"1,x,1,Computer Science,,BSCS\n"+
			"2,y,1,\"Info, Tech\",Applied track,BSIT\n")

	rows, err := readRows(path, programsTable.columns)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1", rows[0][0])
	assert.Nil(t, rows[0][3], "empty description becomes NULL")
	assert.Equal(t, "Info, Tech", rows[1][2])
}

func TestReadRowsRejectsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.csv", "program_id,name\n1,CS\n")

	_, err := readRows(path, programsTable.columns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "department_id")
}

func TestRunImportsAllTablesInOneTransaction(t *testing.T) {
	dir := t.TempDir()
	programs := writeFile(t, dir, "programs.csv",
		"program_id,department_id,name,description,program_abbreviation\n1,1,Computer Science,,BSCS\n")
	specs := writeFile(t, dir, "specs.csv",
		"specialization_id,program_id,name,description,abbreviation\n1,1,Software Engineering,,SE\n")
	courses := writeFile(t, dir, "courses.csv",
		"course_id,title,course_code,description,term_id,specialization_id,created_at,updated_at\n"+
			"1,Data Structures,CS201,,1,1,2024-06-01,2024-06-01\n")

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO programs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("setval").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO program_specializations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("setval").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO courses").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("setval").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	imp := New(db, nil)
	summary, err := imp.Run(context.Background(), programs, specs, courses)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Programs)
	assert.Equal(t, 1, summary.Specializations)
	assert.Equal(t, 1, summary.Courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRollsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	programs := writeFile(t, dir, "programs.csv",
		"program_id,department_id,name,description,program_abbreviation\n1,1,Computer Science,,BSCS\n")
	specs := writeFile(t, dir, "specs.csv",
		"specialization_id,program_id,name,description,abbreviation\n1,1,Software Engineering,,SE\n")
	courses := writeFile(t, dir, "courses.csv",
		"course_id,title,course_code,description,term_id,specialization_id,created_at,updated_at\n"+
			"1,Data Structures,CS201,,1,1,2024-06-01,2024-06-01\n")

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO programs").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	imp := New(db, nil)
	_, err = imp.Run(context.Background(), programs, specs, courses)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
