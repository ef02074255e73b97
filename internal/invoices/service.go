package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	numberPrefix      = "INV-"
	maxNumberAttempts = 1000
	defaultDueDays    = 30
)

type invoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*models.Invoice, error)
	Count(ctx context.Context) (int64, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	FindByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]models.Invoice, int64, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidBy string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes invoice ledger operations. MarkPaid carries no
// double-payment guard; the settlement orchestrator checks IsPaid before
// calling.
type Service interface {
	Create(ctx context.Context, input CreateInvoiceInput) (*InvoiceDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error)
	GetByNumber(ctx context.Context, number string) (*InvoiceDTO, error)
	GetByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]InvoiceDTO, int64, error)
	MarkPaid(ctx context.Context, id, merchantID uuid.UUID, paidBy string) error
	Delete(ctx context.Context, id, merchantID uuid.UUID) error
}

type service struct {
	repo invoiceRepository
	now  func() time.Time
}

// NewService builds an invoice service with the provided repository.
func NewService(repo invoiceRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInvoiceInput) (*InvoiceDTO, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.MerchantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}

	number, err := s.nextNumber(ctx)
	if err != nil {
		return nil, err
	}

	dueAt := s.now().AddDate(0, 0, defaultDueDays)
	if input.DueAt != nil {
		dueAt = *input.DueAt
	}

	invoice := &models.Invoice{
		Number:      number,
		MerchantID:  input.MerchantID,
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		DueAt:       dueAt,
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
	}
	return FromModel(invoice), nil
}

// nextNumber proposes INV-(count+1) zero-padded to six digits and walks
// forward past collisions. Deleting invoices leaves gaps in the count, so the
// first proposal can land on a taken number.
func (s *service) nextNumber(ctx context.Context) (string, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count invoices")
	}

	candidate := count + 1
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := fmt.Sprintf("%s%06d", numberPrefix, candidate)
		taken, err := s.repo.ExistsByNumber(ctx, number)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check invoice number")
		}
		if !taken {
			return number, nil
		}
		candidate++
	}

	// Collision budget exhausted: fall back to a random suffix.
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return numberPrefix + suffix, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return FromModel(invoice), nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*InvoiceDTO, error) {
	invoice, err := s.repo.FindByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return FromModel(invoice), nil
}

func (s *service) GetByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]InvoiceDTO, int64, error) {
	invoices, total, err := s.repo.FindByMerchant(ctx, merchantID, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}
	dtos := make([]InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		dtos = append(dtos, *FromModel(&invoices[i]))
	}
	return dtos, total, nil
}

// MarkPaid flips the invoice to paid after an ownership check. It does not
// inspect IsPaid; that guard belongs to the caller.
func (s *service) MarkPaid(ctx context.Context, id, merchantID uuid.UUID, paidBy string) error {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	if invoice.MerchantID != merchantID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "invoice belongs to another merchant")
	}
	if err := s.repo.MarkPaid(ctx, id, paidBy); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark invoice paid")
	}
	return nil
}

// Delete removes an invoice after ownership and paid-state checks. The paid
// guard used to live only in the presentation layer; it is enforced here now
// so no API path can delete settled invoices.
func (s *service) Delete(ctx context.Context, id, merchantID uuid.UUID) error {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	if invoice.MerchantID != merchantID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "invoice belongs to another merchant")
	}
	if invoice.IsPaid {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "paid invoices cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete invoice")
	}
	return nil
}
