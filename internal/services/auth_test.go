package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"moblind/internal/config"
	"moblind/internal/domain"
	"moblind/internal/util"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	tokens, err := util.NewTokens(&config.AuthConfig{
		SecretKey:          "0123456789abcdef0123456789abcdef",
		TokenExpiryMinutes: 30,
		Algorithm:          "HS256",
	})
	require.NoError(t, err)
	return NewAuthService(db, tokens, nil), db
}

func TestCreateUserAndLogin(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, &CreateUserPayload{Username: "mo", Email: " MO@mo-blind.com ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "mo@mo-blind.com", user.Email)
	assert.True(t, user.IsStaff)
	assert.False(t, user.IsAdmin)

	result, err := s.Login(ctx, &LoginPayload{Username: "mo", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)

	authed, err := s.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
	assert.NotNil(t, authed.LastLogin)
}

func TestCreateUserRejectsDuplicatesAndWeakPasswords(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, &CreateUserPayload{Username: "mo", Email: "mo@mo-blind.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, &CreateUserPayload{Username: "other", Email: "mo@mo-blind.com", Password: "correct horse"})
	requireServiceError(t, err, ErrNameBadRequest)

	_, err = s.CreateUser(ctx, &CreateUserPayload{Username: "short", Email: "short@mo-blind.com", Password: "abc"})
	requireServiceError(t, err, ErrNameBadRequest)

	_, err = s.CreateUser(ctx, &CreateUserPayload{Username: " ", Email: "", Password: "correct horse"})
	requireServiceError(t, err, ErrNameBadRequest)
}

func TestLoginFailures(t *testing.T) {
	s, db := newAuthService(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, &CreateUserPayload{Username: "mo", Email: "mo@mo-blind.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = s.Login(ctx, &LoginPayload{Username: "mo", Password: "wrong horse"})
	requireServiceError(t, err, ErrNameUnauthorized)

	_, err = s.Login(ctx, &LoginPayload{Username: "nobody", Password: "correct horse"})
	requireServiceError(t, err, ErrNameUnauthorized)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = s.Login(ctx, &LoginPayload{Username: "mo", Password: "correct horse"})
	requireServiceError(t, err, ErrNameUnauthorized)
}

func TestAuthenticateRequiresStaff(t *testing.T) {
	s, db := newAuthService(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, &CreateUserPayload{Username: "mo", Email: "mo@mo-blind.com", Password: "correct horse"})
	require.NoError(t, err)
	result, err := s.Login(ctx, &LoginPayload{Username: "mo", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", user.ID).Update("is_staff", false).Error)
	_, err = s.Authenticate(ctx, result.AccessToken)
	requireServiceError(t, err, ErrNameForbidden)

	_, err = s.Authenticate(ctx, "not-a-token")
	requireServiceError(t, err, ErrNameUnauthorized)
}
