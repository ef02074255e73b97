package invoices

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvoicesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS invoices (
  id TEXT PRIMARY KEY,
  number TEXT NOT NULL UNIQUE,
  merchant_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  due_at DATETIME NOT NULL,
  is_paid INTEGER NOT NULL DEFAULT 0,
  paid_by TEXT NOT NULL DEFAULT ''
);`
	require.NoError(t, db.Exec(schema).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM invoices")
	})

	return db
}

func seedInvoice(t *testing.T, db *gorm.DB, merchantID uuid.UUID, number string, createdAt time.Time, paid bool) models.Invoice {
	t.Helper()

	invoice := models.Invoice{
		ID:         uuid.New(),
		Number:     number,
		MerchantID: merchantID,
		Amount:     decimal.NewFromInt(100),
		CreatedAt:  createdAt,
		DueAt:      createdAt.Add(30 * 24 * time.Hour),
		IsPaid:     paid,
	}
	require.NoError(t, db.Create(&invoice).Error)
	return invoice
}

func TestRepositoryFindByMerchantPagesNewestFirst(t *testing.T) {
	db := setupInvoicesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	merchantID := uuid.New()
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedInvoice(t, db, merchantID, fmt.Sprintf("INV-%06d", i+1), base.Add(time.Duration(i)*time.Hour), false)
	}
	// Another merchant's invoice must not leak into the listing.
	seedInvoice(t, db, uuid.New(), "INV-000099", base, false)

	page, total, err := repo.FindByMerchant(ctx, merchantID, pagination.Params{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "INV-000005", page[0].Number)
	assert.Equal(t, "INV-000004", page[1].Number)

	page, total, err = repo.FindByMerchant(ctx, merchantID, pagination.Params{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 1)
	assert.Equal(t, "INV-000001", page[0].Number)
}

func TestRepositoryCountAndExistsByNumber(t *testing.T) {
	db := setupInvoicesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	merchantID := uuid.New()
	now := time.Now().UTC()
	seedInvoice(t, db, merchantID, "INV-000001", now, false)
	seedInvoice(t, db, merchantID, "INV-000002", now, true)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	exists, err := repo.ExistsByNumber(ctx, "INV-000002")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNumber(ctx, "INV-000003")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryMarkPaidSetsFlagAndPayer(t *testing.T) {
	db := setupInvoicesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	invoice := seedInvoice(t, db, uuid.New(), "INV-000010", time.Now().UTC(), false)

	require.NoError(t, repo.MarkPaid(ctx, invoice.ID, "Maria Santos"))

	reloaded, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsPaid)
	assert.Equal(t, "Maria Santos", reloaded.PaidBy)
}

func TestRepositoryMarkPaidUnknownID(t *testing.T) {
	db := setupInvoicesTestDB(t)
	repo := NewRepository(db)

	err := repo.MarkPaid(context.Background(), uuid.New(), "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDeleteRemovesRow(t *testing.T) {
	db := setupInvoicesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	invoice := seedInvoice(t, db, uuid.New(), "INV-000020", time.Now().UTC(), false)

	require.NoError(t, repo.Delete(ctx, invoice.ID))
	_, err := repo.FindByID(ctx, invoice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, invoice.ID), gorm.ErrRecordNotFound)
}
