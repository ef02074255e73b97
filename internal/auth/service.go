package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/users"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/config"
	pkgdb "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// invalidCredentials is deliberately identical for unknown usernames and wrong
// passwords so login failures leak nothing about which field was wrong.
const invalidCredentials = "invalid username or password"

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionRepository interface {
	Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*models.Session, error)
	FindActiveByToken(ctx context.Context, token string, now time.Time) (*models.Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

// Service exposes account and session operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*users.UserDTO, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*models.Session, error)
	GetUser(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*users.UserDTO, error)
	ChangePassword(ctx context.Context, id uuid.UUID, input ChangePasswordInput) error
}

type service struct {
	users       userRepository
	sessions    sessionRepository
	passwordCfg config.PasswordConfig
	sessionCfg  config.SessionConfig
	now         func() time.Time
}

// NewService builds an auth service with the provided repositories.
func NewService(usersRepo userRepository, sessionsRepo sessionRepository, passwordCfg config.PasswordConfig, sessionCfg config.SessionConfig) (Service, error) {
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if sessionsRepo == nil {
		return nil, fmt.Errorf("sessions repository required")
	}
	return &service{
		users:       usersRepo,
		sessions:    sessionsRepo,
		passwordCfg: passwordCfg,
		sessionCfg:  sessionCfg,
		now:         time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*users.UserDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if minLen := s.passwordCfg.MinLength; len(input.Password) < minLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minLen))
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup username")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		MiddleName:   input.MiddleName,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		// Unique index backstop for concurrent registrations.
		if pkgdb.IsUniqueViolation(err, "idx_users_username") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return users.FromModel(user), nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentials)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	match, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentials)
	}

	token, err := security.GenerateSessionToken(s.sessionCfg.TokenBytes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate token")
	}

	expiresAt := s.now().Add(s.sessionCfg.TokenTTL())
	session, err := s.sessions.Create(ctx, user.ID, token, expiresAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session")
	}

	return &LoginResult{
		Token:     session.Token,
		UserID:    user.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout drops the session row. Unknown or already-removed tokens succeed.
func (s *service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
	}
	return nil
}

// ValidateSession resolves a bearer token to its live session. Expired tokens
// fail validation but stay in storage untouched.
func (s *service) ValidateSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token")
	}
	session, err := s.sessions.FindActiveByToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
	}
	return session, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Username != nil {
		newUsername := strings.TrimSpace(*input.Username)
		if newUsername != "" && newUsername != user.Username {
			if _, err := s.users.FindByUsername(ctx, newUsername); err == nil {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup username")
			}
			user.Username = newUsername
		}
	}
	if input.FirstName != nil && strings.TrimSpace(*input.FirstName) != "" {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil && strings.TrimSpace(*input.LastName) != "" {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.MiddleName != nil {
		user.MiddleName = cloneStringPtr(input.MiddleName)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if pkgdb.IsUniqueViolation(err, "idx_users_username") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return users.FromModel(user), nil
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, input ChangePasswordInput) error {
	if minLen := s.passwordCfg.MinLength; len(input.NewPassword) < minLen {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minLen))
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	match, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	// HashPassword draws a fresh salt, so rotation changes salt and digest.
	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, id, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
