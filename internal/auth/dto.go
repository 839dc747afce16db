package auth

import (
	"time"

	"github.com/wfjournal/wfj-backend/internal/users"
)

// RegisterRequest captures the payload for creating a journal account.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,min=4,max=254,email"`
	Password string  `json:"password" validate:"required,max=200"`
}

// LoginRequest carries the credentials sent to the login endpoint. The single
// identifier field matches either a username or an email address.
type LoginRequest struct {
	NameOrEmail string `json:"nameOrEmail" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// LoginResponse contains the minted token and the authenticated user.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      *users.UserDTO `json:"user"`
}

// RegisterResponse returns the created account.
type RegisterResponse struct {
	User *users.UserDTO `json:"user"`
}
