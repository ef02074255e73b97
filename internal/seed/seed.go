package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/config"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/security"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DemoPassword is the password for every seeded demo account.
const DemoPassword = "demo-password-123"

// MaybeRun populates demo data when the feature flag is enabled. It is a
// no-op when any user already exists.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, db *gorm.DB) error {
	if !cfg.FeatureFlags.SeedDemo {
		return nil
	}

	var userCount int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if userCount > 0 {
		logg.Info(ctx, "seed skipped: users already present")
		return nil
	}

	logg.Info(ctx, "seeding demo data")
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hash, err := security.HashPassword(DemoPassword, cfg.Password)
		if err != nil {
			return fmt.Errorf("hashing demo password: %w", err)
		}

		owner := &models.User{
			FirstName:    "Maria",
			LastName:     "Santos",
			Username:     "maria",
			PasswordHash: hash,
		}
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("seeding owner: %w", err)
		}

		merchant := &models.Merchant{
			Code:        "LM-1",
			Name:        "Santos Coffee Roasters",
			Description: "Single-origin beans, wholesale and retail.",
			Balance:     decimal.Zero,
			OwnerUserID: owner.ID,
		}
		if err := tx.Create(merchant).Error; err != nil {
			return fmt.Errorf("seeding merchant: %w", err)
		}

		invoices := []models.Invoice{
			{Number: "INV-000001", MerchantID: merchant.ID, Amount: decimal.NewFromInt(750), Description: "Wholesale beans, 25kg", DueAt: time.Now().AddDate(0, 0, 30)},
			{Number: "INV-000002", MerchantID: merchant.ID, Amount: decimal.RequireFromString("129.95"), Description: "Espresso subscription", DueAt: time.Now().AddDate(0, 0, 14)},
			{Number: "INV-000003", MerchantID: merchant.ID, Amount: decimal.NewFromInt(48), Description: "Tasting session", DueAt: time.Now().AddDate(0, 0, 7)},
		}
		for i := range invoices {
			if err := tx.Create(&invoices[i]).Error; err != nil {
				return fmt.Errorf("seeding invoice %s: %w", invoices[i].Number, err)
			}
		}

		// The duplicate number and the separator variants are intentional:
		// lookups must tolerate both.
		cards := []models.CreditCard{
			{HolderFirstName: "John", HolderLastName: "Doe", Number: "4111111111111111", ExpMonth: 6, ExpYear: 30, CVV: "123", Balance: decimal.NewFromInt(1000)},
			{HolderFirstName: "Jane", HolderLastName: "Roe", Number: "5555 5555 5555 4444", ExpMonth: 11, ExpYear: 28, CVV: "321", Balance: decimal.NewFromInt(500)},
			{HolderFirstName: "John", HolderLastName: "Doe", Number: "4111-1111-1111-1111", ExpMonth: 6, ExpYear: 30, CVV: "123", Balance: decimal.NewFromInt(75)},
			{HolderFirstName: "Pat", HolderLastName: "Lee", Number: "340000000000009", ExpMonth: 1, ExpYear: 27, CVV: "9999", Balance: decimal.RequireFromString("12.50")},
		}
		for i := range cards {
			if err := tx.Create(&cards[i]).Error; err != nil {
				return fmt.Errorf("seeding card: %w", err)
			}
		}

		logg.Info(ctx, "seed completed")
		return nil
	})
}
