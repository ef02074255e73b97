package invoices

import (
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceDTO exposes invoice data in API responses.
type InvoiceDTO struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	MerchantID  uuid.UUID       `json:"merchantId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	DueAt       time.Time       `json:"dueAt"`
	IsPaid      bool            `json:"isPaid"`
	PaidBy      string          `json:"paidBy,omitempty"`
}

// CreateInvoiceInput holds creation-time data for a new invoice.
type CreateInvoiceInput struct {
	MerchantID  uuid.UUID
	Amount      decimal.Decimal
	Description string
	DueAt       *time.Time
}

// FromModel maps the persisted invoice into a DTO.
func FromModel(m *models.Invoice) *InvoiceDTO {
	if m == nil {
		return nil
	}
	return &InvoiceDTO{
		ID:          m.ID,
		Number:      m.Number,
		MerchantID:  m.MerchantID,
		Amount:      m.Amount,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		DueAt:       m.DueAt,
		IsPaid:      m.IsPaid,
		PaidBy:      m.PaidBy,
	}
}
