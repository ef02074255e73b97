package merchants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// feeRate is the platform cut applied by AddBalance. The settlement path
// credits the full amount instead; the two policies are deliberately separate
// (tracked discrepancy, see DESIGN.md).
var feeRate = decimal.NewFromFloat(0.0399)

type merchantRepository interface {
	Create(ctx context.Context, merchant *models.Merchant) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Merchant, error)
	Count(ctx context.Context) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, merchant *models.Merchant) error
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

// Service exposes merchant account operations.
type Service interface {
	Create(ctx context.Context, input CreateMerchantInput) (*MerchantDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MerchantDTO, error)
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*MerchantDTO, error)
	Edit(ctx context.Context, id, ownerUserID uuid.UUID, input UpdateMerchantInput) (*MerchantDTO, error)
	AddBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	CreditSettlement(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
}

type service struct {
	repo merchantRepository
}

// NewService builds a merchant service with the provided repository.
func NewService(repo merchantRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("merchant repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateMerchantInput) (*MerchantDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant name is required")
	}

	if _, err := s.repo.FindByOwner(ctx, input.OwnerUserID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already owns a merchant")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup merchant by owner")
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count merchants")
	}

	merchant := &models.Merchant{
		Code:        fmt.Sprintf("LM-%d", count+1),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		LogoURL:     strings.TrimSpace(input.LogoURL),
		Balance:     decimal.Zero,
		OwnerUserID: input.OwnerUserID,
	}
	if err := s.repo.Create(ctx, merchant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create merchant")
	}
	return FromModel(merchant), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*MerchantDTO, error) {
	merchant, err := s.loadMerchant(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(merchant), nil
}

func (s *service) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*MerchantDTO, error) {
	merchant, err := s.repo.FindByOwner(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	return FromModel(merchant), nil
}

func (s *service) Edit(ctx context.Context, id, ownerUserID uuid.UUID, input UpdateMerchantInput) (*MerchantDTO, error) {
	merchant, err := s.loadMerchant(ctx, id)
	if err != nil {
		return nil, err
	}
	if merchant.OwnerUserID != ownerUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "merchant is owned by another user")
	}

	if input.Code != nil {
		newCode := strings.TrimSpace(*input.Code)
		if newCode != "" && newCode != merchant.Code {
			exists, err := s.repo.ExistsByCode(ctx, newCode)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check merchant code")
			}
			if exists {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "merchant code already in use")
			}
			merchant.Code = newCode
		}
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		merchant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		merchant.Description = strings.TrimSpace(*input.Description)
	}
	if input.LogoURL != nil {
		merchant.LogoURL = strings.TrimSpace(*input.LogoURL)
	}

	if err := s.repo.Update(ctx, merchant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update merchant")
	}
	return FromModel(merchant), nil
}

// AddBalance applies the fee-adjusted top-up: balance += amount * (1 - fee).
func (s *service) AddBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	credit := amount.Mul(decimal.NewFromInt(1).Sub(feeRate)).Round(2)
	return s.credit(ctx, id, credit)
}

// CreditSettlement applies the settlement credit: the full invoice amount, no
// fee deducted.
func (s *service) CreditSettlement(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	return s.credit(ctx, id, amount)
}

func (s *service) credit(ctx context.Context, id uuid.UUID, credit decimal.Decimal) (decimal.Decimal, error) {
	merchant, err := s.loadMerchant(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	newBalance := merchant.Balance.Add(credit)
	if err := s.repo.SetBalance(ctx, id, newBalance); err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit merchant")
	}
	return newBalance, nil
}

func (s *service) loadMerchant(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	merchant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	return merchant, nil
}
