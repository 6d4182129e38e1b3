package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest carries the planner's shared passphrase.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the session token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// SessionClaims is the JWT payload marking a session as unlocked.
type SessionClaims struct {
	Authenticated bool `json:"authenticated"`
	jwt.RegisteredClaims
}
