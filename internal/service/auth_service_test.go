package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

type authRepoStub struct {
	byEmail map[string]models.UserDetail
	byID    map[int64]models.UserDetail
}

func (s *authRepoStub) FindByEmail(ctx context.Context, email string) (*models.UserDetail, error) {
	if u, ok := s.byEmail[email]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) FindByID(ctx context.Context, id int64) (*models.UserDetail, error) {
	if u, ok := s.byID[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

type tokenRepoStub struct {
	byToken map[string]models.RefreshToken
	revoked []string
}

func (s *tokenRepoStub) Create(ctx context.Context, token *models.RefreshToken) error {
	if s.byToken == nil {
		s.byToken = make(map[string]models.RefreshToken)
	}
	s.byToken[token.Token] = *token
	return nil
}

func (s *tokenRepoStub) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := s.byToken[token]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (s *tokenRepoStub) Revoke(ctx context.Context, id string, revokedAt time.Time) error {
	s.revoked = append(s.revoked, id)
	return nil
}

func (s *tokenRepoStub) RevokeAllForUser(ctx context.Context, userID int64) error {
	return nil
}

func testAuthService(users *authRepoStub, tokens *tokenRepoStub) *AuthService {
	return NewAuthService(users, tokens, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "records-api-test",
	})
}

func approvedUser(t *testing.T, password string) models.UserDetail {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return models.UserDetail{
		User: models.User{
			UserID:       5,
			Name:         "Ana Reyes",
			Email:        "ana@example.edu",
			PasswordHash: string(hash),
			IsApproved:   true,
		},
		RoleName: models.RoleAdmin,
	}
}

func TestLoginIssuesTokens(t *testing.T) {
	user := approvedUser(t, "correct-horse")
	users := &authRepoStub{byEmail: map[string]models.UserDetail{user.Email: user}}
	tokens := &tokenRepoStub{}
	svc := testAuthService(users, tokens)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.UserID, resp.User.UserID)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	user := approvedUser(t, "correct-horse")
	users := &authRepoStub{byEmail: map[string]models.UserDetail{user.Email: user}}
	svc := testAuthService(users, &tokenRepoStub{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "battery-staple"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
}

func TestLoginRejectsUnapprovedAccount(t *testing.T) {
	user := approvedUser(t, "correct-horse")
	user.IsApproved = false
	users := &authRepoStub{byEmail: map[string]models.UserDetail{user.Email: user}}
	svc := testAuthService(users, &tokenRepoStub{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "correct-horse"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "ACCOUNT_NOT_APPROVED", appErr.Code)
	assert.Equal(t, "Account pending admin approval", appErr.Message)
}

func TestRefreshRotatesToken(t *testing.T) {
	user := approvedUser(t, "correct-horse")
	users := &authRepoStub{
		byEmail: map[string]models.UserDetail{user.Email: user},
		byID:    map[int64]models.UserDetail{user.UserID: user},
	}
	tokens := &tokenRepoStub{}
	svc := testAuthService(users, tokens)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Len(t, tokens.revoked, 1)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	user := approvedUser(t, "correct-horse")
	users := &authRepoStub{byID: map[int64]models.UserDetail{user.UserID: user}}
	tokens := &tokenRepoStub{byToken: map[string]models.RefreshToken{
		"dead": {ID: "t1", UserID: user.UserID, Token: "dead", Revoked: true, ExpiresAt: time.Now().Add(time.Hour)},
	}}
	svc := testAuthService(users, tokens)

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "dead"})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}
