package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// SignupRequest is posted by the signup form. Blank fields are reported as one message by the usecase.
type SignupRequest struct {
	Username string `form:"username" validate:"max=150"`
	Email    string `form:"email" validate:"max=254"`
	Password string `form:"password"`
}

type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Response DTOs

type SessionResponse struct {
	Token     string        `json:"token"`
	TokenID   string        `json:"token_id"`
	ExpiresIn time.Duration `json:"expires_in"`
	User      UserResponse  `json:"user"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}
