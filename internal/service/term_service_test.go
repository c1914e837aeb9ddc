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

type termRepoStub struct {
	terms    map[int64]models.SchoolTerm
	existing map[string]bool
	created  *models.SchoolTerm
	deleted  map[int64]bool
}

func (s *termRepoStub) List(ctx context.Context, filter models.SchoolTermFilter) ([]models.SchoolTerm, int64, error) {
	var out []models.SchoolTerm
	for _, t := range s.terms {
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (s *termRepoStub) FindByID(ctx context.Context, id int64) (*models.SchoolTerm, error) {
	if t, ok := s.terms[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (s *termRepoStub) ExistsByYearSemester(ctx context.Context, schoolYear, semester string, excludeID int64) (bool, error) {
	return s.existing[schoolYear+"|"+semester], nil
}

func (s *termRepoStub) Create(ctx context.Context, term *models.SchoolTerm) error {
	term.TermID = 42
	s.created = term
	return nil
}

func (s *termRepoStub) Update(ctx context.Context, term *models.SchoolTerm) error {
	s.terms[term.TermID] = *term
	return nil
}

func (s *termRepoStub) ToggleStatus(ctx context.Context, id int64) (*models.SchoolTerm, error) {
	t, ok := s.terms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	t.IsActive = !t.IsActive
	s.terms[id] = t
	return &t, nil
}

func (s *termRepoStub) Delete(ctx context.Context, id int64) (bool, error) {
	if s.deleted == nil {
		s.deleted = make(map[int64]bool)
	}
	if _, ok := s.terms[id]; !ok {
		return false, nil
	}
	delete(s.terms, id)
	s.deleted[id] = true
	return true, nil
}

func TestCreateTermAssignsGeneratedID(t *testing.T) {
	repo := &termRepoStub{existing: map[string]bool{}}
	svc := NewTermService(repo, nil, nil)

	active := true
	term, err := svc.Create(context.Background(), models.CreateSchoolTermRequest{
		SchoolYear: "2025-2026",
		Semester:   "1st",
		StartDate:  "2025-08-01",
		EndDate:    "2025-12-15",
		IsActive:   &active,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), term.TermID)
	assert.True(t, term.IsActive)
	assert.Equal(t, "2025-08-01", term.StartDate.Format("2006-01-02"))
}

func TestCreateTermRejectsDuplicateYearSemester(t *testing.T) {
	repo := &termRepoStub{existing: map[string]bool{"2025-2026|1st": true}}
	svc := NewTermService(repo, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateSchoolTermRequest{
		SchoolYear: "2025-2026",
		Semester:   "1st",
		StartDate:  "2025-08-01",
		EndDate:    "2025-12-15",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "School term already exists for this year and semester", appErr.Message)
	assert.Nil(t, repo.created)
}

func TestCreateTermRejectsInvertedDates(t *testing.T) {
	repo := &termRepoStub{existing: map[string]bool{}}
	svc := NewTermService(repo, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateSchoolTermRequest{
		SchoolYear: "2025-2026",
		Semester:   "1st",
		StartDate:  "2025-12-15",
		EndDate:    "2025-08-01",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestUpdateTermNotFound(t *testing.T) {
	repo := &termRepoStub{terms: map[int64]models.SchoolTerm{}}
	svc := NewTermService(repo, nil, nil)

	year := "2026-2027"
	_, err := svc.Update(context.Background(), 99, models.UpdateSchoolTermRequest{SchoolYear: &year})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "School term not found", appErr.Message)
}

func TestDeleteTermTwiceReturnsNotFound(t *testing.T) {
	repo := &termRepoStub{terms: map[int64]models.SchoolTerm{5: {TermID: 5}}}
	svc := NewTermService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 5))
	err := svc.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestToggleStatusFlipsFlag(t *testing.T) {
	repo := &termRepoStub{terms: map[int64]models.SchoolTerm{3: {TermID: 3, IsActive: false}}}
	svc := NewTermService(repo, nil, nil)

	term, err := svc.ToggleStatus(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, term.IsActive)
}
