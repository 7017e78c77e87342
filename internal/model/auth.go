package model

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	FirstName   string `json:"firstName" binding:"required,max=50"`
	LastName    string `json:"lastName" binding:"required,max=50"`
	Email       string `json:"email" binding:"required,email,max=100"`
	Phone       string `json:"phone" binding:"required,max=15"`
	Password    string `json:"password" binding:"required,min=6,max=120"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
}

// LoginRequest is the signin payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by both signup and signin.
type AuthResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Roles     []string  `json:"roles"`
}

// TokenClaims are the validated contents of an access token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	Roles     []string
	ExpiresAt time.Time
}
