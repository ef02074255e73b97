package invoices

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestCreateAssignsSequentialNumber(t *testing.T) {
	repo := &stubInvoiceRepo{count: 7}
	svc := newInvoiceService(t, repo)

	dto, err := svc.Create(context.Background(), CreateInvoiceInput{
		MerchantID: uuid.New(),
		Amount:     decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if dto.Number != "INV-000008" {
		t.Fatalf("expected INV-000008 got %s", dto.Number)
	}
	if dto.IsPaid {
		t.Fatal("new invoice must be unpaid")
	}
}

func TestCreateSkipsTakenNumbers(t *testing.T) {
	// Count says 3 invoices exist, but INV-000004 and INV-000005 survived
	// earlier deletions; numbering must walk past them.
	repo := &stubInvoiceRepo{
		count: 3,
		taken: map[string]bool{"INV-000004": true, "INV-000005": true},
	}
	svc := newInvoiceService(t, repo)

	dto, err := svc.Create(context.Background(), CreateInvoiceInput{
		MerchantID: uuid.New(),
		Amount:     decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if dto.Number != "INV-000006" {
		t.Fatalf("expected INV-000006 got %s", dto.Number)
	}
}

func TestCreateFallsBackToRandomSuffix(t *testing.T) {
	repo := &stubInvoiceRepo{count: 0, allTaken: true}
	svc := newInvoiceService(t, repo)

	dto, err := svc.Create(context.Background(), CreateInvoiceInput{
		MerchantID: uuid.New(),
		Amount:     decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if !strings.HasPrefix(dto.Number, "INV-") {
		t.Fatalf("fallback number must keep prefix, got %s", dto.Number)
	}
	if dto.Number == "INV-000001" {
		t.Fatal("expected random-suffix fallback, got the sequential number")
	}
	if repo.existsCalls != maxNumberAttempts {
		t.Fatalf("expected %d collision checks, got %d", maxNumberAttempts, repo.existsCalls)
	}
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc := newInvoiceService(t, &stubInvoiceRepo{})

	_, err := svc.Create(context.Background(), CreateInvoiceInput{
		MerchantID: uuid.New(),
		Amount:     decimal.Zero,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkPaidOwnershipMismatch(t *testing.T) {
	invoice := baseInvoice()
	repo := &stubInvoiceRepo{byID: invoice}
	svc := newInvoiceService(t, repo)

	err := svc.MarkPaid(context.Background(), invoice.ID, uuid.New(), "John Doe")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestMarkPaidDoesNotGuardDoublePayment(t *testing.T) {
	invoice := baseInvoice()
	invoice.IsPaid = true
	repo := &stubInvoiceRepo{byID: invoice}
	svc := newInvoiceService(t, repo)

	// The ledger mutates unconditionally; the orchestrator owns the
	// already-paid check.
	if err := svc.MarkPaid(context.Background(), invoice.ID, invoice.MerchantID, "Jane Roe"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if repo.markPaidBy != "Jane Roe" {
		t.Fatalf("expected paidBy recorded, got %q", repo.markPaidBy)
	}
}

func TestDeletePaidInvoiceBlocked(t *testing.T) {
	invoice := baseInvoice()
	invoice.IsPaid = true
	repo := &stubInvoiceRepo{byID: invoice}
	svc := newInvoiceService(t, repo)

	err := svc.Delete(context.Background(), invoice.ID, invoice.MerchantID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.deleted {
		t.Fatal("paid invoice must not be deleted")
	}
}

func TestDeleteUnpaidInvoice(t *testing.T) {
	invoice := baseInvoice()
	repo := &stubInvoiceRepo{byID: invoice}
	svc := newInvoiceService(t, repo)

	if err := svc.Delete(context.Background(), invoice.ID, invoice.MerchantID); err != nil {
		t.Fatalf("delete invoice: %v", err)
	}
	if !repo.deleted {
		t.Fatal("expected invoice deleted")
	}
}

func TestGetByMerchantPassesPagination(t *testing.T) {
	invoice := baseInvoice()
	repo := &stubInvoiceRepo{list: []models.Invoice{*invoice}, listTotal: 25}
	svc := newInvoiceService(t, repo)

	items, total, err := svc.GetByMerchant(context.Background(), invoice.MerchantID, pagination.Params{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("get by merchant: %v", err)
	}
	if total != 25 {
		t.Fatalf("expected total 25 got %d", total)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item got %d", len(items))
	}
	if repo.listParams.Page != 2 || repo.listParams.PageSize != 10 {
		t.Fatalf("expected pagination forwarded, got %+v", repo.listParams)
	}
}

func newInvoiceService(t *testing.T, repo *stubInvoiceRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func baseInvoice() *models.Invoice {
	return &models.Invoice{
		ID:         uuid.New(),
		Number:     "INV-000001",
		MerchantID: uuid.New(),
		Amount:     decimal.NewFromInt(750),
		DueAt:      time.Now().AddDate(0, 1, 0),
	}
}

type stubInvoiceRepo struct {
	byID        *models.Invoice
	count       int64
	taken       map[string]bool
	allTaken    bool
	existsCalls int
	markPaidBy  string
	deleted     bool
	list        []models.Invoice
	listTotal   int64
	listParams  pagination.Params
}

func (s *stubInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	invoice.ID = uuid.New()
	return nil
}

func (s *stubInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	if s.byID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byID, nil
}

func (s *stubInvoiceRepo) FindByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	if s.byID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byID, nil
}

func (s *stubInvoiceRepo) Count(ctx context.Context) (int64, error) {
	return s.count, nil
}

func (s *stubInvoiceRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	s.existsCalls++
	if s.allTaken {
		return true, nil
	}
	return s.taken[number], nil
}

func (s *stubInvoiceRepo) FindByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]models.Invoice, int64, error) {
	s.listParams = params
	return s.list, s.listTotal, nil
}

func (s *stubInvoiceRepo) MarkPaid(ctx context.Context, id uuid.UUID, paidBy string) error {
	s.markPaidBy = paidBy
	return nil
}

func (s *stubInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = true
	return nil
}
