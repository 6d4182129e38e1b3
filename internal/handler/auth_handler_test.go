package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lesson-planner-api/internal/middleware"
	"github.com/noah-isme/lesson-planner-api/internal/models"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
)

type fakeAuthSrv struct {
	password string
}

func (f *fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Password != f.password {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "incorrect password")
	}
	return &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	h := NewAuthHandler(&fakeAuthSrv{password: "chalkboard"})

	c, rec := newTestContext(http.MethodPost, "/auth/login", map[string]string{"password": "chalkboard"})
	h.Login(c)
	require.Equal(t, http.StatusOK, rec.Code)
	var res models.LoginResponse
	decodeEnvelope(t, rec, &res)
	assert.Equal(t, "token", res.AccessToken)

	c, rec = newTestContext(http.MethodPost, "/auth/login", map[string]string{"password": "nope"})
	h.Login(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newTestContext(http.MethodPost, "/auth/login", `{"password":`)
	h.Login(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerSession(t *testing.T) {
	h := NewAuthHandler(&fakeAuthSrv{})

	c, rec := newTestContext(http.MethodGet, "/auth/session", nil)
	h.Session(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expires := time.Date(2025, 7, 24, 20, 0, 0, 0, time.UTC)
	c, rec = newTestContext(http.MethodGet, "/auth/session", nil)
	c.Set(middleware.ContextSessionKey, &models.SessionClaims{
		Authenticated:    true,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expires)},
	})
	h.Session(c)
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Authenticated bool      `json:"authenticated"`
		ExpiresAt     time.Time `json:"expires_at"`
	}
	decodeEnvelope(t, rec, &payload)
	assert.True(t, payload.Authenticated)
	assert.True(t, expires.Equal(payload.ExpiresAt))
}
