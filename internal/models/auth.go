package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest captures the student's identity.
type LoginRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	ClassName string `json:"className" validate:"required,max=20"`
}

// SessionResponse returns the issued session token and profile.
type SessionResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	IssuedAt  time.Time   `json:"issued_at"`
	Profile   UserProfile `json:"profile"`
}

// SessionClaims are embedded in the session token.
type SessionClaims struct {
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
	jwt.RegisteredClaims
}
