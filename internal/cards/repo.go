package cards

import (
	"context"
	"fmt"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository handles card persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to card operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new card row.
func (r *Repository) Create(ctx context.Context, input CreateCardInput) (*models.CreditCard, error) {
	card := input.ToModel()
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

// FindByID loads a card by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindAll returns every stored card.
func (r *Repository) FindAll(ctx context.Context) ([]models.CreditCard, error) {
	var cards []models.CreditCard
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// FindByNormalizedNumber matches a card by number with separators stripped on
// both sides. Stored rows may carry spaces or hyphens, and duplicate numbers
// are possible; the first match wins.
func (r *Repository) FindByNormalizedNumber(ctx context.Context, normalized string) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := r.db.WithContext(ctx).
		Where("REPLACE(REPLACE(number, ' ', ''), '-', '') = ?", normalized).
		Order("created_at ASC").
		First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// ExistsByExactNumber reports whether a card already stores this exact number
// string, separators included.
func (r *Repository) ExistsByExactNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CreditCard{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update saves the provided card.
func (r *Repository) Update(ctx context.Context, card *models.CreditCard) error {
	if card == nil {
		return fmt.Errorf("card is required")
	}
	return r.db.WithContext(ctx).Save(card).Error
}

// SetBalance overwrites the card balance with the provided value.
func (r *Repository) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.CreditCard{}).
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

// Delete removes the card row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CreditCard{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
