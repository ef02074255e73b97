package cards

import (
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardDTO exposes stored instrument data in API responses. The full number and
// CVV are returned because this is a demo ledger, not a PCI vault.
type CardDTO struct {
	ID              uuid.UUID       `json:"id"`
	HolderFirstName string          `json:"holderFirstName"`
	HolderLastName  string          `json:"holderLastName"`
	Number          string          `json:"number"`
	ExpMonth        int             `json:"expMonth"`
	ExpYear         int             `json:"expYear"`
	CVV             string          `json:"cvv"`
	Balance         decimal.Decimal `json:"balance"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateCardInput holds creation-time data for a new instrument.
type CreateCardInput struct {
	HolderFirstName string
	HolderLastName  string
	Number          string
	ExpMonth        int
	ExpYear         int
	CVV             string
	Balance         decimal.Decimal
}

// UpdateCardInput captures the allowed card fields for mutation.
type UpdateCardInput struct {
	HolderFirstName *string
	HolderLastName  *string
	Number          *string
	ExpMonth        *int
	ExpYear         *int
	CVV             *string
	Balance         *decimal.Decimal
}

// FromModel maps the persisted card into a DTO.
func FromModel(m *models.CreditCard) *CardDTO {
	if m == nil {
		return nil
	}
	return &CardDTO{
		ID:              m.ID,
		HolderFirstName: m.HolderFirstName,
		HolderLastName:  m.HolderLastName,
		Number:          m.Number,
		ExpMonth:        m.ExpMonth,
		ExpYear:         m.ExpYear,
		CVV:             m.CVV,
		Balance:         m.Balance,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation input.
func (c CreateCardInput) ToModel() *models.CreditCard {
	return &models.CreditCard{
		HolderFirstName: c.HolderFirstName,
		HolderLastName:  c.HolderLastName,
		Number:          c.Number,
		ExpMonth:        c.ExpMonth,
		ExpYear:         c.ExpYear,
		CVV:             c.CVV,
		Balance:         c.Balance,
	}
}
