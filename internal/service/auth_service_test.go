package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
)

func newTestAuthService(t *testing.T, password string) *AuthService {
	t.Helper()
	svc, err := NewAuthService(nil, nil, AuthConfig{
		Password:          password,
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestAuthAttemptLogin(t *testing.T) {
	svc := newTestAuthService(t, "teacher123")
	assert.True(t, svc.AttemptLogin("teacher123"))
	assert.False(t, svc.AttemptLogin("teacher124"))
	assert.False(t, svc.AttemptLogin(""))
}

func TestAuthAcceptsPreHashedPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := newTestAuthService(t, string(hash))
	assert.True(t, svc.AttemptLogin("s3cret"))
	assert.False(t, svc.AttemptLogin(string(hash)))
}

func TestAuthRequiresPassword(t *testing.T) {
	_, err := NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "secret"})
	assert.Error(t, err)
}

func TestAuthLoginIssuesValidToken(t *testing.T) {
	svc := newTestAuthService(t, "teacher123")

	resp, err := svc.Login(context.Background(), models.LoginRequest{Password: "teacher123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.Authenticated)
	assert.Equal(t, "lesson-planner-api", claims.Issuer)
}

func TestAuthLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestAuthService(t, "teacher123")

	_, err := svc.Login(context.Background(), models.LoginRequest{Password: "nope"})
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	_, err = svc.Login(context.Background(), models.LoginRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	svc := newTestAuthService(t, "teacher123")
	resp, err := svc.Login(context.Background(), models.LoginRequest{Password: "teacher123"})
	require.NoError(t, err)

	other := newTestAuthService(t, "teacher123")
	other.config.AccessTokenSecret = "different"
	_, err = other.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	_, err = svc.ValidateToken("garbage")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
