package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/infrastructure/auth"
)

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"required,max=20"`
}

// LoginRequest is the body of POST /token
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /token/refresh
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// LogoutInput identifies the access token being revoked
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	// TTL is how long the token would have stayed valid
	TTL time.Duration
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// TokenResponse is returned by register, login and refresh
type TokenResponse struct {
	*auth.TokenPair
	User *UserInfo `json:"user,omitempty"`
}
