package merchants

import (
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MerchantDTO exposes merchant data in API responses.
type MerchantDTO struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	LogoURL     string          `json:"logoUrl"`
	Balance     decimal.Decimal `json:"balance"`
	OwnerUserID uuid.UUID       `json:"ownerUserId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateMerchantInput holds creation-time data for a new merchant.
type CreateMerchantInput struct {
	Name        string
	Description string
	LogoURL     string
	OwnerUserID uuid.UUID
}

// UpdateMerchantInput captures the allowed merchant fields for mutation.
type UpdateMerchantInput struct {
	Name        *string
	Description *string
	LogoURL     *string
	Code        *string
}

// FromModel maps the persisted merchant into a DTO.
func FromModel(m *models.Merchant) *MerchantDTO {
	if m == nil {
		return nil
	}
	return &MerchantDTO{
		ID:          m.ID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		LogoURL:     m.LogoURL,
		Balance:     m.Balance,
		OwnerUserID: m.OwnerUserID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
