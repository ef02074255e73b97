package transactions

import (
	"context"
	"fmt"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository appends and reads immutable settlement records. There is no
// update or delete path on purpose.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to transaction operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append persists a new settlement record.
func (r *Repository) Append(ctx context.Context, record *models.Transaction) error {
	if record == nil {
		return fmt.Errorf("transaction is required")
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByMerchant returns one page of a merchant's settlement history ordered
// newest first, plus the total row count.
func (r *Repository) FindByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]models.Transaction, int64, error) {
	params = pagination.Normalize(params)

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("merchant_id = ?", merchantID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
