package users

import (
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/google/uuid"
)

// UserDTO exposes safe identity data in API responses.
type UserDTO struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	MiddleName *string   `json:"middleName,omitempty"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateUserDTO holds creation-time data for a new user.
type CreateUserDTO struct {
	FirstName    string
	LastName     string
	MiddleName   *string
	Username     string
	PasswordHash string
}

// FromModel maps the persisted user into a DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:         m.ID,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		MiddleName: m.MiddleName,
		Username:   m.Username,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO.
func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		MiddleName:   c.MiddleName,
		Username:     c.Username,
		PasswordHash: c.PasswordHash,
	}
}
