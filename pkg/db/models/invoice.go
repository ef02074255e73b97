package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice transitions unpaid to paid exactly once; amount is immutable after
// creation. The double-payment guard lives in the settlement orchestrator, not
// here.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number      string          `gorm:"column:number;type:text;not null;uniqueIndex"`
	MerchantID  uuid.UUID       `gorm:"column:merchant_id;type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	DueAt       time.Time       `gorm:"column:due_at;not null"`
	IsPaid      bool            `gorm:"column:is_paid;not null;default:false"`
	PaidBy      string          `gorm:"column:paid_by;not null;default:''"`
}
