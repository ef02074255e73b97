package merchants

import (
	"context"
	"fmt"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository handles merchant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to merchant operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new merchant row.
func (r *Repository) Create(ctx context.Context, merchant *models.Merchant) error {
	if merchant == nil {
		return fmt.Errorf("merchant is required")
	}
	return r.db.WithContext(ctx).Create(merchant).Error
}

// FindByID loads a merchant by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

// FindByOwner loads the merchant owned by the given user. Each user owns at
// most one.
func (r *Repository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("owner_user_id = ?", ownerUserID).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

// Count returns the total merchant count; merchant codes derive from it.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Merchant{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode reports whether a merchant already uses the code.
func (r *Repository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Merchant{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update saves the provided merchant.
func (r *Repository) Update(ctx context.Context, merchant *models.Merchant) error {
	if merchant == nil {
		return fmt.Errorf("merchant is required")
	}
	return r.db.WithContext(ctx).Save(merchant).Error
}

// SetBalance overwrites the merchant balance with the provided value.
func (r *Repository) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.Merchant{}).
		Where("id = ?", id).
		Update("balance", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
