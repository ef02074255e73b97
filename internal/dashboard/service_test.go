package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/merchants"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestStatsAggregates(t *testing.T) {
	merchantID := uuid.New()
	repo := &stubStatsRepo{
		unpaidTotal: decimal.NewFromInt(320),
		todayPaid:   3,
		paid:        6,
		total:       8,
		settled:     decimal.NewFromInt(450),
	}
	reader := &stubMerchantReader{merchant: &merchants.MerchantDTO{
		ID:      merchantID,
		Balance: decimal.NewFromInt(1200),
	}}

	svc, err := NewService(repo, reader)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	stats, err := svc.Stats(context.Background(), merchantID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !stats.Balance.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected balance 1200 got %s", stats.Balance)
	}
	if !stats.PendingAmount.Equal(decimal.NewFromInt(320)) {
		t.Fatalf("expected pending 320 got %s", stats.PendingAmount)
	}
	if stats.TodayPaidCount != 3 {
		t.Fatalf("expected 3 paid today got %d", stats.TodayPaidCount)
	}
	if stats.SuccessRate != 0.75 {
		t.Fatalf("expected success rate 0.75 got %f", stats.SuccessRate)
	}
	if stats.ChargebackRisk != 0.02 {
		t.Fatalf("expected static risk 0.02 got %f", stats.ChargebackRisk)
	}
}

func TestStatsZeroInvoices(t *testing.T) {
	reader := &stubMerchantReader{merchant: &merchants.MerchantDTO{ID: uuid.New()}}
	svc, err := NewService(&stubStatsRepo{}, reader)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	stats, err := svc.Stats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SuccessRate != 0 {
		t.Fatalf("expected zero success rate with no invoices, got %f", stats.SuccessRate)
	}
}

func TestRecentTransactionsClampsLimit(t *testing.T) {
	repo := &stubStatsRepo{}
	reader := &stubMerchantReader{merchant: &merchants.MerchantDTO{ID: uuid.New()}}
	svc, err := NewService(repo, reader)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.RecentTransactions(context.Background(), uuid.New(), -1); err != nil {
		t.Fatalf("recent transactions: %v", err)
	}
	if repo.recentLimit != defaultRecentLimit {
		t.Fatalf("expected limit clamped to %d got %d", defaultRecentLimit, repo.recentLimit)
	}
}

type stubStatsRepo struct {
	unpaidTotal decimal.Decimal
	todayPaid   int64
	paid        int64
	total       int64
	settled     decimal.Decimal
	recentLimit int
}

func (s *stubStatsRepo) UnpaidTotal(ctx context.Context, merchantID uuid.UUID) (decimal.Decimal, error) {
	return s.unpaidTotal, nil
}

func (s *stubStatsRepo) PaidCountSince(ctx context.Context, merchantID uuid.UUID, since time.Time) (int64, error) {
	return s.todayPaid, nil
}

func (s *stubStatsRepo) InvoiceCounts(ctx context.Context, merchantID uuid.UUID) (int64, int64, error) {
	return s.paid, s.total, nil
}

func (s *stubStatsRepo) SettledSince(ctx context.Context, merchantID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	return s.settled, nil
}

func (s *stubStatsRepo) RecentPaid(ctx context.Context, merchantID uuid.UUID, limit int) ([]models.Invoice, error) {
	s.recentLimit = limit
	return nil, nil
}

type stubMerchantReader struct {
	merchant *merchants.MerchantDTO
}

func (s *stubMerchantReader) GetByID(ctx context.Context, id uuid.UUID) (*merchants.MerchantDTO, error) {
	return s.merchant, nil
}
