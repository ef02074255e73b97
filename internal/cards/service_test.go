package cards

import (
	"context"
	"testing"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestNormalizeNumber(t *testing.T) {
	cases := map[string]string{
		"4111 1111-1111 1111": "4111111111111111",
		"4111111111111111":    "4111111111111111",
		" 4111-1111-1111-1111 ": "4111111111111111",
	}
	for in, want := range cases {
		if got := NormalizeNumber(in); got != want {
			t.Fatalf("NormalizeNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newCardService(t, &stubCardRepo{})

	cases := []struct {
		name  string
		input CreateCardInput
	}{
		{"missing holder", CreateCardInput{Number: "4111111111111111", CVV: "123", ExpMonth: 1, ExpYear: 30}},
		{"short number", CreateCardInput{HolderFirstName: "A", HolderLastName: "B", Number: "4111", CVV: "123", ExpMonth: 1, ExpYear: 30}},
		{"short cvv", CreateCardInput{HolderFirstName: "A", HolderLastName: "B", Number: "4111111111111111", CVV: "12", ExpMonth: 1, ExpYear: 30}},
		{"bad month", CreateCardInput{HolderFirstName: "A", HolderLastName: "B", Number: "4111111111111111", CVV: "123", ExpMonth: 13, ExpYear: 30}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateRejectsVerbatimDuplicate(t *testing.T) {
	repo := &stubCardRepo{exists: true}
	svc := newCardService(t, repo)

	_, err := svc.Create(context.Background(), CreateCardInput{
		HolderFirstName: "John", HolderLastName: "Doe",
		Number: "4111111111111111", CVV: "123", ExpMonth: 6, ExpYear: 30,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestFindByNumberNormalizes(t *testing.T) {
	card := baseCard()
	repo := &stubCardRepo{byNumber: card}
	svc := newCardService(t, repo)

	got, err := svc.FindByNumber(context.Background(), "4111 1111-1111 1111")
	if err != nil {
		t.Fatalf("find by number: %v", err)
	}
	if got.ID != card.ID {
		t.Fatalf("expected card %s got %s", card.ID, got.ID)
	}
	if repo.lastNormalized != "4111111111111111" {
		t.Fatalf("expected normalized lookup, got %q", repo.lastNormalized)
	}
}

func TestFindByNumberShortInputNotFound(t *testing.T) {
	svc := newCardService(t, &stubCardRepo{})

	_, err := svc.FindByNumber(context.Background(), "1234")
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record-not-found sentinel, got %v", err)
	}
}

func TestDebitIsUnconditional(t *testing.T) {
	card := baseCard()
	card.Balance = decimal.NewFromInt(100)
	repo := &stubCardRepo{byID: card}
	svc := newCardService(t, repo)

	// Over-debit is allowed at this layer; the orchestrator owns the check.
	newBalance, err := svc.Debit(context.Background(), card.ID, decimal.NewFromInt(250))
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	want := decimal.NewFromInt(-150)
	if !newBalance.Equal(want) {
		t.Fatalf("expected balance %s got %s", want, newBalance)
	}
	if !repo.setBalanceValue.Equal(want) {
		t.Fatalf("expected stored balance %s got %s", want, repo.setBalanceValue)
	}
}

func TestUpdateDuplicateNumberGuard(t *testing.T) {
	card := baseCard()
	repo := &stubCardRepo{byID: card, exists: true}
	svc := newCardService(t, repo)

	other := "5555555555554444"
	_, err := svc.Update(context.Background(), card.ID, UpdateCardInput{Number: &other})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := &stubCardRepo{deleteErr: gorm.ErrRecordNotFound}
	svc := newCardService(t, repo)

	err := svc.Delete(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func newCardService(t *testing.T, repo *stubCardRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func baseCard() *models.CreditCard {
	return &models.CreditCard{
		ID:              uuid.New(),
		HolderFirstName: "John",
		HolderLastName:  "Doe",
		Number:          "4111111111111111",
		ExpMonth:        6,
		ExpYear:         30,
		CVV:             "123",
		Balance:         decimal.NewFromInt(1000),
	}
}

type stubCardRepo struct {
	byID            *models.CreditCard
	byNumber        *models.CreditCard
	exists          bool
	deleteErr       error
	lastNormalized  string
	setBalanceValue decimal.Decimal
}

func (s *stubCardRepo) Create(ctx context.Context, input CreateCardInput) (*models.CreditCard, error) {
	card := input.ToModel()
	card.ID = uuid.New()
	return card, nil
}

func (s *stubCardRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CreditCard, error) {
	if s.byID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byID, nil
}

func (s *stubCardRepo) FindAll(ctx context.Context) ([]models.CreditCard, error) {
	if s.byID == nil {
		return nil, nil
	}
	return []models.CreditCard{*s.byID}, nil
}

func (s *stubCardRepo) FindByNormalizedNumber(ctx context.Context, normalized string) (*models.CreditCard, error) {
	s.lastNormalized = normalized
	if s.byNumber == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byNumber, nil
}

func (s *stubCardRepo) ExistsByExactNumber(ctx context.Context, number string) (bool, error) {
	return s.exists, nil
}

func (s *stubCardRepo) Update(ctx context.Context, card *models.CreditCard) error {
	return nil
}

func (s *stubCardRepo) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	s.setBalanceValue = balance
	return nil
}

func (s *stubCardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteErr
}
