package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditCard is a stored payment instrument. The number column deliberately
// carries no uniqueness constraint: seed data contains duplicates and lookups
// must tolerate them. The create path rejects duplicates instead.
type CreditCard struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	HolderFirstName string          `gorm:"column:holder_first_name;not null"`
	HolderLastName  string          `gorm:"column:holder_last_name;not null"`
	Number          string          `gorm:"column:number;type:text;not null;index"`
	ExpMonth        int             `gorm:"column:exp_month;not null"`
	ExpYear         int             `gorm:"column:exp_year;not null"`
	CVV             string          `gorm:"column:cvv;not null"`
	Balance         decimal.Decimal `gorm:"column:balance;type:numeric(12,2);not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
