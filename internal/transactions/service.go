package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionDTO exposes one settlement record in API responses.
type TransactionDTO struct {
	ID         uuid.UUID       `json:"id"`
	MerchantID uuid.UUID       `json:"merchantId"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type transactionRepository interface {
	Append(ctx context.Context, record *models.Transaction) error
	FindByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]models.Transaction, int64, error)
}

// Service exposes the append-only settlement log.
type Service interface {
	Append(ctx context.Context, merchantID uuid.UUID, amount decimal.Decimal) (*TransactionDTO, error)
	GetByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]TransactionDTO, int64, error)
}

type service struct {
	repo transactionRepository
}

// NewService builds a transaction-log service with the provided repository.
func NewService(repo transactionRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, merchantID uuid.UUID, amount decimal.Decimal) (*TransactionDTO, error) {
	record := &models.Transaction{
		MerchantID: merchantID,
		Amount:     amount,
	}
	if err := s.repo.Append(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append transaction")
	}
	return fromModel(record), nil
}

func (s *service) GetByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]TransactionDTO, int64, error) {
	records, total, err := s.repo.FindByMerchant(ctx, merchantID, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	dtos := make([]TransactionDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *fromModel(&records[i]))
	}
	return dtos, total, nil
}

func fromModel(m *models.Transaction) *TransactionDTO {
	return &TransactionDTO{
		ID:         m.ID,
		MerchantID: m.MerchantID,
		Amount:     m.Amount,
		CreatedAt:  m.CreatedAt,
	}
}
