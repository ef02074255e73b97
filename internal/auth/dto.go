package auth

import (
	"time"

	"github.com/google/uuid"
)

// RegisterInput captures the fields required to create an account.
type RegisterInput struct {
	FirstName  string
	LastName   string
	MiddleName *string
	Username   string
	Password   string
}

// LoginInput carries the credential pair for session issuance.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UpdateUserInput captures the allowed identity fields for mutation. Nil
// pointers and empty strings leave the stored value untouched.
type UpdateUserInput struct {
	FirstName  *string
	LastName   *string
	MiddleName *string
	Username   *string
}

// ChangePasswordInput carries a password rotation request.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}
