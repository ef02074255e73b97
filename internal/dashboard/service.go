package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/invoices"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/merchants"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// chargebackRisk is a static placeholder score; there is no risk model behind it.
const chargebackRisk = 0.02

const defaultRecentLimit = 10

// Stats is the merchant dashboard summary.
type Stats struct {
	Balance        decimal.Decimal `json:"balance"`
	PendingAmount  decimal.Decimal `json:"pendingAmount"`
	TodayPaidCount int64           `json:"todayPaidCount"`
	SuccessRate    float64         `json:"successRate"`
	BalanceChange  decimal.Decimal `json:"balanceChange"`
	ChargebackRisk float64         `json:"chargebackRisk"`
}

type statsRepository interface {
	UnpaidTotal(ctx context.Context, merchantID uuid.UUID) (decimal.Decimal, error)
	PaidCountSince(ctx context.Context, merchantID uuid.UUID, since time.Time) (int64, error)
	InvoiceCounts(ctx context.Context, merchantID uuid.UUID) (int64, int64, error)
	SettledSince(ctx context.Context, merchantID uuid.UUID, since time.Time) (decimal.Decimal, error)
	RecentPaid(ctx context.Context, merchantID uuid.UUID, limit int) ([]models.Invoice, error)
}

type merchantReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*merchants.MerchantDTO, error)
}

// Service aggregates read-only merchant metrics.
type Service interface {
	Stats(ctx context.Context, merchantID uuid.UUID) (*Stats, error)
	RecentTransactions(ctx context.Context, merchantID uuid.UUID, limit int) ([]invoices.InvoiceDTO, error)
}

type service struct {
	repo      statsRepository
	merchants merchantReader
	now       func() time.Time
}

// NewService builds a dashboard service over the aggregate repository.
func NewService(repo statsRepository, merchantsSvc merchantReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if merchantsSvc == nil {
		return nil, fmt.Errorf("merchant reader required")
	}
	return &service{repo: repo, merchants: merchantsSvc, now: time.Now}, nil
}

func (s *service) Stats(ctx context.Context, merchantID uuid.UUID) (*Stats, error) {
	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.UnpaidTotal(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum unpaid invoices")
	}

	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayPaid, err := s.repo.PaidCountSince(ctx, merchantID, todayStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count today's paid invoices")
	}

	paid, total, err := s.repo.InvoiceCounts(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count invoices")
	}
	successRate := 0.0
	if total > 0 {
		successRate = float64(paid) / float64(total)
	}

	balanceChange, err := s.repo.SettledSince(ctx, merchantID, todayStart.AddDate(0, 0, -1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum recent settlements")
	}

	return &Stats{
		Balance:        merchant.Balance,
		PendingAmount:  pending,
		TodayPaidCount: todayPaid,
		SuccessRate:    successRate,
		BalanceChange:  balanceChange,
		ChargebackRisk: chargebackRisk,
	}, nil
}

func (s *service) RecentTransactions(ctx context.Context, merchantID uuid.UUID, limit int) ([]invoices.InvoiceDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultRecentLimit
	}
	paid, err := s.repo.RecentPaid(ctx, merchantID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent paid invoices")
	}
	dtos := make([]invoices.InvoiceDTO, 0, len(paid))
	for i := range paid {
		dtos = append(dtos, *invoices.FromModel(&paid[i]))
	}
	return dtos, nil
}
