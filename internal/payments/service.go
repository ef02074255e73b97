package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/invoices"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/transactions"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type invoiceLedger interface {
	GetByID(ctx context.Context, id uuid.UUID) (*invoices.InvoiceDTO, error)
	MarkPaid(ctx context.Context, id, merchantID uuid.UUID, paidBy string) error
}

type cardLedger interface {
	FindByNumber(ctx context.Context, number string) (*models.CreditCard, error)
	Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

type merchantAccount interface {
	CreditSettlement(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
}

type transactionLog interface {
	Append(ctx context.Context, merchantID uuid.UUID, amount decimal.Decimal) (*transactions.TransactionDTO, error)
}

// Service executes settlement attempts against the ledgers. It is the only
// safety boundary: the ledgers underneath mutate unconditionally.
type Service interface {
	Pay(ctx context.Context, input PayInput) (*PayResult, error)
}

type service struct {
	invoices  invoiceLedger
	cards     cardLedger
	merchants merchantAccount
	txlog     transactionLog
	logg      *logger.Logger
	metrics   *metrics.PaymentMetrics
	locks     *cardLocks
}

// NewService wires the settlement orchestrator.
func NewService(invoiceLdg invoiceLedger, cardLdg cardLedger, merchantAcct merchantAccount, txlog transactionLog, logg *logger.Logger, pm *metrics.PaymentMetrics) (Service, error) {
	if invoiceLdg == nil || cardLdg == nil || merchantAcct == nil || txlog == nil {
		return nil, fmt.Errorf("all ledgers are required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		invoices:  invoiceLdg,
		cards:     cardLdg,
		merchants: merchantAcct,
		txlog:     txlog,
		logg:      logg,
		metrics:   pm,
		locks:     newCardLocks(),
	}, nil
}

// Pay runs one settlement attempt. Validation failures terminate before any
// side effect; failures after the card debit restore the card's pre-debit
// balance. The merchant credit is never compensated once applied — if marking
// the invoice paid fails afterwards, the credit stands (known ordering gap).
func (s *service) Pay(ctx context.Context, input PayInput) (*PayResult, error) {
	start := time.Now()
	sett := newSettlement()
	ctx = s.logg.WithField(ctx, "invoice_id", input.InvoiceID.String())

	result := s.pay(ctx, sett, input)

	outcome := "success"
	if !result.Success {
		outcome = result.ErrorCode
	}
	s.metrics.ObserveSettlement(outcome, time.Since(start))

	ctx = s.logg.WithFields(ctx, map[string]any{
		"state":   string(sett.state),
		"outcome": outcome,
	})
	if result.Success {
		s.logg.Info(ctx, "settlement completed")
	} else {
		// The visited-state trail shows how far the attempt got before it
		// stopped, which the terminal state alone does not.
		ctx = s.logg.WithField(ctx, "trail", sett.trailStrings())
		s.logg.Warn(ctx, "settlement did not complete: "+result.Message)
	}
	return result, nil
}

func (s *service) pay(ctx context.Context, sett *settlement, input PayInput) *PayResult {
	// Step 1: invoice fetch + paid guard.
	invoice, err := s.invoices.GetByID(ctx, input.InvoiceID)
	if err != nil {
		sett.advance(StateRejected)
		return rejected(ErrCodeNotFound, "invoice not found")
	}
	if invoice.IsPaid {
		sett.advance(StateRejected)
		return rejected(ErrCodeAlreadyPaid, "invoice has already been paid")
	}
	sett.advance(StateInvoiceValidated)

	// Steps 2-5: card lookup and holder checks.
	card, reject := s.authorizeCard(ctx, input)
	if reject != nil {
		sett.advance(StateRejected)
		return reject
	}
	sett.advance(StateCardAuthorized)

	// Serialize the check-debit window per card.
	lock := s.locks.lock(card.ID)
	defer lock.Unlock()

	// Step 6: sufficiency check. Debit below performs no re-check.
	if card.Balance.LessThan(invoice.Amount) {
		sett.advance(StateRejected)
		return rejected(ErrCodeInsufficientFunds,
			fmt.Sprintf("insufficient funds: card balance %s is less than invoice amount %s",
				card.Balance.StringFixed(2), invoice.Amount.StringFixed(2)))
	}

	preDebitBalance := card.Balance

	// Step 7: debit.
	remaining, err := s.cards.Debit(ctx, card.ID, invoice.Amount)
	if err != nil {
		sett.advance(StateRejected)
		return rejected(ErrCodePaymentFailed, "debit failed: "+err.Error())
	}
	sett.advance(StateCardDebited)

	// Step 8: credit the merchant the full invoice amount (no fee on the
	// settlement path).
	if _, err := s.merchants.CreditSettlement(ctx, invoice.MerchantID, invoice.Amount); err != nil {
		return s.compensate(ctx, sett, card.ID, preDebitBalance, err, "merchant credit failed")
	}
	sett.advance(StateMerchantCredited)

	// Step 9: mark paid. Failure here restores the card but leaves the
	// merchant credited.
	paidBy := paidByName(input.FirstName, input.LastName)
	if err := s.invoices.MarkPaid(ctx, invoice.ID, invoice.MerchantID, paidBy); err != nil {
		return s.compensate(ctx, sett, card.ID, preDebitBalance, err, "marking invoice paid failed")
	}
	sett.advance(StateInvoicePaid)

	// Step 10: append the audit record. The invoice is already paid, so no
	// compensation applies; the failure is surfaced as-is.
	record, err := s.txlog.Append(ctx, invoice.MerchantID, invoice.Amount)
	if err != nil {
		sett.advance(StateFailed)
		s.logg.Error(ctx, "settlement settled but audit append failed", err)
		return rejected(ErrCodePaymentFailed, "recording transaction failed: "+err.Error())
	}
	sett.advance(StateLogged)

	return &PayResult{
		Success:          true,
		Message:          "payment completed",
		TransactionID:    &record.ID,
		RemainingBalance: &remaining,
	}
}

// authorizeCard resolves and verifies the presented instrument. Every failure
// collapses to UNAUTHORIZED so a prober cannot tell which check tripped.
func (s *service) authorizeCard(ctx context.Context, input PayInput) (*models.CreditCard, *PayResult) {
	card, err := s.cards.FindByNumber(ctx, input.CardNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rejected(ErrCodeUnauthorized, "card verification failed")
		}
		return nil, rejected(ErrCodePaymentFailed, "card lookup failed: "+err.Error())
	}

	if !strings.EqualFold(strings.TrimSpace(input.FirstName), card.HolderFirstName) ||
		!strings.EqualFold(strings.TrimSpace(input.LastName), card.HolderLastName) {
		return nil, rejected(ErrCodeUnauthorized, "card verification failed")
	}

	if expiry := strings.TrimSpace(input.ExpiryDate); expiry != "" {
		if !expiryMatches(expiry, card.ExpMonth, card.ExpYear) {
			return nil, rejected(ErrCodeUnauthorized, "card verification failed")
		}
	}

	if cvv := strings.TrimSpace(input.CVV); cvv != "" && cvv != card.CVV {
		return nil, rejected(ErrCodeUnauthorized, "card verification failed")
	}

	return card, nil
}

// expiryMatches compares a presented MM/YY or MMYY string against the stored
// month and two-digit year.
func expiryMatches(presented string, month, year int) bool {
	normalized := strings.NewReplacer("/", "", " ", "").Replace(presented)
	if len(normalized) != 4 {
		return false
	}
	want := fmt.Sprintf("%02d%02d", month, year%100)
	return normalized == want
}

func paidByName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// compensate restores the card's pre-debit balance and reports the failure.
// Restore errors are joined onto the original cause rather than replacing it.
func (s *service) compensate(ctx context.Context, sett *settlement, cardID uuid.UUID, preDebitBalance decimal.Decimal, cause error, message string) *PayResult {
	sett.advance(StateFailed)

	combined := cause
	if restoreErr := s.cards.SetBalance(ctx, cardID, preDebitBalance); restoreErr != nil {
		combined = multierr.Append(cause, fmt.Errorf("restoring card balance: %w", restoreErr))
		s.logg.Error(ctx, "settlement compensation failed", combined)
	} else {
		s.logg.Error(ctx, "settlement failed, card balance restored", cause)
	}

	return rejected(ErrCodePaymentFailed, message+": "+combined.Error())
}
