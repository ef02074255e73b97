package cards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	minNumberDigits = 13
	minCVVDigits    = 3
)

// NormalizeNumber strips spaces and hyphens from a card number. Lookups
// normalize both the presented and the stored value so separator style never
// affects matching.
func NormalizeNumber(number string) string {
	replacer := strings.NewReplacer(" ", "", "-", "")
	return replacer.Replace(strings.TrimSpace(number))
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

type cardRepository interface {
	Create(ctx context.Context, input CreateCardInput) (*models.CreditCard, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CreditCard, error)
	FindAll(ctx context.Context) ([]models.CreditCard, error)
	FindByNormalizedNumber(ctx context.Context, normalized string) (*models.CreditCard, error)
	ExistsByExactNumber(ctx context.Context, number string) (bool, error)
	Update(ctx context.Context, card *models.CreditCard) error
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes card ledger operations. Debit and SetBalance are
// unconditional mutators: sufficiency checks belong to the settlement
// orchestrator, not here.
type Service interface {
	Create(ctx context.Context, input CreateCardInput) (*CardDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CardDTO, error)
	GetAll(ctx context.Context) ([]CardDTO, error)
	FindByNumber(ctx context.Context, number string) (*models.CreditCard, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCardInput) (*CardDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

type service struct {
	repo cardRepository
}

// NewService builds a card service with the provided repository.
func NewService(repo cardRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("card repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateCardInput) (*CardDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	// Duplicate guard is verbatim on purpose: stored data may hold duplicate
	// numbers from seeding, and only the management API refuses new ones.
	exists, err := s.repo.ExistsByExactNumber(ctx, input.Number)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check card number")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "card number already exists")
	}

	card, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create card")
	}
	return FromModel(card), nil
}

func validateCreate(input CreateCardInput) error {
	if strings.TrimSpace(input.HolderFirstName) == "" || strings.TrimSpace(input.HolderLastName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "holder first and last name are required")
	}
	normalized := NormalizeNumber(input.Number)
	if len(normalized) < minNumberDigits || !digitsOnly(normalized) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("card number must be at least %d digits", minNumberDigits))
	}
	if len(input.CVV) < minCVVDigits || !digitsOnly(input.CVV) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cvv must be at least %d digits", minCVVDigits))
	}
	if input.ExpMonth < 1 || input.ExpMonth > 12 {
		return pkgerrors.New(pkgerrors.CodeValidation, "expiration month must be between 1 and 12")
	}
	if input.ExpYear < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "expiration year is invalid")
	}
	if input.Balance.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "balance cannot be negative")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CardDTO, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load card")
	}
	return FromModel(card), nil
}

func (s *service) GetAll(ctx context.Context) ([]CardDTO, error) {
	cards, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cards")
	}
	dtos := make([]CardDTO, 0, len(cards))
	for i := range cards {
		dtos = append(dtos, *FromModel(&cards[i]))
	}
	return dtos, nil
}

// FindByNumber resolves a card by its separator-insensitive number. Returns
// gorm.ErrRecordNotFound untranslated so the orchestrator can map it to its
// own error code.
func (s *service) FindByNumber(ctx context.Context, number string) (*models.CreditCard, error) {
	normalized := NormalizeNumber(number)
	if len(normalized) < minNumberDigits || !digitsOnly(normalized) {
		return nil, gorm.ErrRecordNotFound
	}
	return s.repo.FindByNormalizedNumber(ctx, normalized)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCardInput) (*CardDTO, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load card")
	}

	if input.Number != nil && *input.Number != card.Number {
		normalized := NormalizeNumber(*input.Number)
		if len(normalized) < minNumberDigits || !digitsOnly(normalized) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("card number must be at least %d digits", minNumberDigits))
		}
		exists, err := s.repo.ExistsByExactNumber(ctx, *input.Number)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check card number")
		}
		if exists {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "card number already exists")
		}
		card.Number = *input.Number
	}
	if input.HolderFirstName != nil && strings.TrimSpace(*input.HolderFirstName) != "" {
		card.HolderFirstName = strings.TrimSpace(*input.HolderFirstName)
	}
	if input.HolderLastName != nil && strings.TrimSpace(*input.HolderLastName) != "" {
		card.HolderLastName = strings.TrimSpace(*input.HolderLastName)
	}
	if input.ExpMonth != nil {
		if *input.ExpMonth < 1 || *input.ExpMonth > 12 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiration month must be between 1 and 12")
		}
		card.ExpMonth = *input.ExpMonth
	}
	if input.ExpYear != nil {
		card.ExpYear = *input.ExpYear
	}
	if input.CVV != nil {
		if len(*input.CVV) < minCVVDigits || !digitsOnly(*input.CVV) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cvv must be at least %d digits", minCVVDigits))
		}
		card.CVV = *input.CVV
	}
	if input.Balance != nil {
		if input.Balance.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "balance cannot be negative")
		}
		card.Balance = *input.Balance
	}

	if err := s.repo.Update(ctx, card); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update card")
	}
	return FromModel(card), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete card")
	}
	return nil
}

// Debit subtracts amount from the card balance without any sufficiency check.
func (s *service) Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load card")
	}

	newBalance := card.Balance.Sub(amount)
	if err := s.repo.SetBalance(ctx, id, newBalance); err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit card")
	}
	return newBalance, nil
}

// SetBalance overwrites the balance directly; settlement compensation uses it
// to restore a pre-debit value.
func (s *service) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	if err := s.repo.SetBalance(ctx, id, balance); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set card balance")
	}
	return nil
}
