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

type userRepoStub struct {
	users     map[int64]*models.UserDetail
	approvals []string
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[int64]*models.UserDetail)}
}

func (s *userRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int64, error) {
	out := make([]models.UserDetail, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (s *userRepoStub) FindByID(ctx context.Context, id int64) (*models.UserDetail, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return false, nil
}

func (s *userRepoStub) Register(ctx context.Context, user *models.User, profile *models.UserProfile, approvalNote string) error {
	user.UserID = 7
	s.users[7] = &models.UserDetail{User: *user}
	return nil
}

func (s *userRepoStub) Approve(ctx context.Context, id int64, note string) (bool, error) {
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	s.approvals = append(s.approvals, note)
	return true, nil
}

func (s *userRepoStub) ListApprovals(ctx context.Context, userID int64) ([]models.UserApproval, error) {
	out := make([]models.UserApproval, 0, len(s.approvals))
	for i, note := range s.approvals {
		out = append(out, models.UserApproval{ApprovalID: int64(i + 1), UserID: userID, ApprovalNote: note})
	}
	return out, nil
}

func (s *userRepoStub) UpdateProfile(ctx context.Context, user *models.User, profile *models.UserProfile) error {
	return nil
}

func (s *userRepoStub) ResetAllPasswords(ctx context.Context, passwordHash string) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *userRepoStub) Delete(ctx context.Context, id int64) (bool, error) {
	_, ok := s.users[id]
	delete(s.users, id)
	return ok, nil
}

type roleRepoStub struct{}

func (roleRepoStub) List(ctx context.Context) ([]models.Role, error) {
	return []models.Role{{RoleID: 1, Name: models.RoleAdmin}, {RoleID: 2, Name: models.RoleFaculty}}, nil
}

func (roleRepoStub) FindByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	return &models.Role{RoleID: 2, Name: name}, nil
}

func newUserHandler(repo *userRepoStub) *UserHandler {
	terms := &termRepoStub{terms: []models.SchoolTerm{{TermID: 1}}}
	return NewUserHandler(service.NewUserService(repo, roleRepoStub{}, terms, nil, nil, 0, models.RoleFaculty))
}

func TestUserHandlerApproveMissingUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newUserHandler(newUserRepoStub())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/users/42/approve", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	handler.Approve(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandlerApproveWithNote(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newUserRepoStub()
	repo.users[3] = &models.UserDetail{User: models.User{UserID: 3, Email: "dean@example.edu"}}
	handler := newUserHandler(repo)

	payload := bytes.NewBufferString(`{"note":"verified credentials"}`)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/users/3/approve", payload)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	handler.Approve(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.approvals, 1)
	assert.Equal(t, "verified credentials", repo.approvals[0])
}

func TestUserHandlerResetPasswordsReportsCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newUserRepoStub()
	repo.users[1] = &models.UserDetail{User: models.User{UserID: 1}}
	repo.users[2] = &models.UserDetail{User: models.User{UserID: 2}}
	handler := newUserHandler(repo)

	payload, _ := json.Marshal(models.ResetPasswordsRequest{Password: "fresh-start"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/users/reset-passwords", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.ResetPasswords(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Updated int64 `json:"updated"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Data.Updated)
}
