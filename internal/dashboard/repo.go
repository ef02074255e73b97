package dashboard

import (
	"context"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository runs the aggregate queries behind the merchant dashboard.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to dashboard queries.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UnpaidTotal sums the merchant's outstanding invoice amounts.
func (r *Repository) UnpaidTotal(ctx context.Context, merchantID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("merchant_id = ? AND is_paid = ?", merchantID, false).
		Select("SUM(amount)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// PaidCountSince counts invoices marked paid that were created at or after the
// cutoff.
func (r *Repository) PaidCountSince(ctx context.Context, merchantID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("merchant_id = ? AND is_paid = ? AND created_at >= ?", merchantID, true, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// InvoiceCounts returns (paid, total) invoice counts for the merchant.
func (r *Repository) InvoiceCounts(ctx context.Context, merchantID uuid.UUID) (int64, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("merchant_id = ?", merchantID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	var paid int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("merchant_id = ? AND is_paid = ?", merchantID, true).
		Count(&paid).Error; err != nil {
		return 0, 0, err
	}
	return paid, total, nil
}

// SettledSince sums settlement amounts recorded at or after the cutoff.
func (r *Repository) SettledSince(ctx context.Context, merchantID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("merchant_id = ? AND created_at >= ?", merchantID, since).
		Select("SUM(amount)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// RecentPaid returns the merchant's most recently created paid invoices.
func (r *Repository) RecentPaid(ctx context.Context, merchantID uuid.UUID, limit int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND is_paid = ?", merchantID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
