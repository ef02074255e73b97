package invoices

import (
	"context"
	"fmt"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles invoice persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to invoice operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new invoice row.
func (r *Repository) Create(ctx context.Context, invoice *models.Invoice) error {
	if invoice == nil {
		return fmt.Errorf("invoice is required")
	}
	return r.db.WithContext(ctx).Create(invoice).Error
}

// FindByID loads an invoice by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber loads an invoice by its unique number.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Count returns the total invoice count across all merchants; invoice numbers
// derive from it.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Invoice{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber reports whether the number is already taken.
func (r *Repository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByMerchant returns one page of a merchant's invoices ordered newest
// first, plus the total row count.
func (r *Repository) FindByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]models.Invoice, int64, error) {
	params = pagination.Normalize(params)

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("merchant_id = ?", merchantID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []models.Invoice
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// MarkPaid sets the paid flag and payer on the invoice row.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, paidBy string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_paid": true, "paid_by": paidBy})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the invoice row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Invoice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
