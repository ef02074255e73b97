package payments

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error codes surfaced by the public payment endpoint. These are part of the
// wire contract and must stay stable.
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeAlreadyPaid       = "ALREADY_PAID"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrCodePaymentFailed     = "PAYMENT_FAILED"
)

// PayInput is the payer-presented settlement request.
type PayInput struct {
	InvoiceID  uuid.UUID
	CardNumber string
	FirstName  string
	LastName   string
	ExpiryDate string
	CVV        string
}

// PayResult is the flat settlement response. Business failures are carried in
// the result rather than as errors so the endpoint can keep its legacy shape.
type PayResult struct {
	Success          bool             `json:"success"`
	Message          string           `json:"message"`
	TransactionID    *uuid.UUID       `json:"transactionId,omitempty"`
	RemainingBalance *decimal.Decimal `json:"remainingBalance,omitempty"`
	ErrorCode        string           `json:"error,omitempty"`
}

func rejected(code, message string) *PayResult {
	return &PayResult{Success: false, Message: message, ErrorCode: code}
}
