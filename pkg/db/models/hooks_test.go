package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupModelsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		for _, table := range []string{"transactions", "invoices", "credit_cards", "merchants", "sessions", "users"} {
			db.Exec("DROP TABLE IF EXISTS " + table)
		}
	})

	return db
}

// The demo mode builds its schema from these models on sqlite, which has no
// gen_random_uuid. Both the generated DDL and row creation must work there.
func TestAutoMigrateAndCreateOnSQLite(t *testing.T) {
	db := setupModelsTestDB(t)

	require.NoError(t, db.AutoMigrate(
		&User{},
		&Session{},
		&Merchant{},
		&CreditCard{},
		&Invoice{},
		&Transaction{},
	))

	user := User{
		FirstName:    "Maria",
		LastName:     "Santos",
		Username:     "maria.santos",
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(&user).Error)
	assert.NotEqual(t, uuid.Nil, user.ID)

	merchant := Merchant{
		Code:        "LM-1",
		Name:        "Luna Market",
		Balance:     decimal.Zero,
		OwnerUserID: user.ID,
	}
	require.NoError(t, db.Create(&merchant).Error)
	assert.NotEqual(t, uuid.Nil, merchant.ID)

	invoice := Invoice{
		Number:     "INV-000001",
		MerchantID: merchant.ID,
		Amount:     decimal.NewFromInt(750),
		DueAt:      time.Now().UTC().AddDate(0, 0, 30),
	}
	require.NoError(t, db.Create(&invoice).Error)
	assert.NotEqual(t, uuid.Nil, invoice.ID)

	var reloaded Invoice
	require.NoError(t, db.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, "INV-000001", reloaded.Number)
}

func TestBeforeCreateKeepsExplicitIDs(t *testing.T) {
	db := setupModelsTestDB(t)
	require.NoError(t, db.AutoMigrate(&Session{}))

	id := uuid.New()
	session := Session{
		ID:        id,
		UserID:    uuid.New(),
		Token:     "fixed-token",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, db.Create(&session).Error)
	assert.Equal(t, id, session.ID)
}
