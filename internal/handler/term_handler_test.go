package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registra/records-api/internal/models"
	"github.com/registra/records-api/internal/service"
)

type termRepoStub struct {
	terms     []models.SchoolTerm
	duplicate bool
	toggled   *models.SchoolTerm
}

func (s *termRepoStub) List(ctx context.Context, filter models.SchoolTermFilter) ([]models.SchoolTerm, int64, error) {
	return s.terms, int64(len(s.terms)), nil
}

func (s *termRepoStub) FindByID(ctx context.Context, id int64) (*models.SchoolTerm, error) {
	for i := range s.terms {
		if s.terms[i].TermID == id {
			return &s.terms[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *termRepoStub) ExistsByYearSemester(ctx context.Context, schoolYear, semester string, excludeID int64) (bool, error) {
	return s.duplicate, nil
}

func (s *termRepoStub) Create(ctx context.Context, term *models.SchoolTerm) error {
	term.TermID = 5
	return nil
}

func (s *termRepoStub) Update(ctx context.Context, term *models.SchoolTerm) error {
	return nil
}

func (s *termRepoStub) ToggleStatus(ctx context.Context, id int64) (*models.SchoolTerm, error) {
	if s.toggled == nil {
		return nil, sql.ErrNoRows
	}
	return s.toggled, nil
}

func (s *termRepoStub) Delete(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

type envelopeError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestTermHandlerCreateDuplicatePair(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSchoolTermHandler(service.NewTermService(&termRepoStub{duplicate: true}, nil, nil))

	payload, _ := json.Marshal(models.CreateSchoolTermRequest{
		SchoolYear: "2024-2025",
		Semester:   "1st",
		StartDate:  "2024-08-01",
		EndDate:    "2024-12-15",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/school-terms", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body envelopeError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "CONFLICT", body.Error.Code)
	assert.Equal(t, "School term already exists for this year and semester", body.Error.Message)
}

func TestTermHandlerToggleStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSchoolTermHandler(service.NewTermService(&termRepoStub{}, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/school-terms/99/toggle-status", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	handler.ToggleStatus(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTermHandlerRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSchoolTermHandler(service.NewTermService(&termRepoStub{}, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/school-terms/abc", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
