package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction records an immutable settlement. One row per successful payment.
type Transaction struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MerchantID uuid.UUID       `gorm:"column:merchant_id;type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
