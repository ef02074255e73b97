package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/responses"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/invoices"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/payments"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
)

type payRequest struct {
	InvoiceGuid string `json:"invoiceGuid"`
	CardNumber  string `json:"cardNumber"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	ExpiryDate  string `json:"expiryDate"`
	CVV         string `json:"cvv"`
}

// PaymentPay drives the settlement sequence. The endpoint keeps the legacy
// flat response shape: business failures come back as {success:false, error}
// rather than the error envelope.
func PaymentPay(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeFlat(w, http.StatusInternalServerError, &payments.PayResult{
				Success:   false,
				Message:   "payment processing failed",
				ErrorCode: payments.ErrCodePaymentFailed,
			})
			return
		}

		var body payRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeFlat(w, http.StatusBadRequest, &payments.PayResult{
				Success:   false,
				Message:   "invalid request body",
				ErrorCode: payments.ErrCodePaymentFailed,
			})
			return
		}

		invoiceID, err := uuid.Parse(body.InvoiceGuid)
		if err != nil {
			writeFlat(w, http.StatusNotFound, &payments.PayResult{
				Success:   false,
				Message:   "invoice not found",
				ErrorCode: payments.ErrCodeNotFound,
			})
			return
		}

		result, err := svc.Pay(r.Context(), payments.PayInput{
			InvoiceID:  invoiceID,
			CardNumber: body.CardNumber,
			FirstName:  body.FirstName,
			LastName:   body.LastName,
			ExpiryDate: body.ExpiryDate,
			CVV:        body.CVV,
		})
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "payment.unhandled_error", err)
			}
			writeFlat(w, http.StatusInternalServerError, &payments.PayResult{
				Success:   false,
				Message:   "payment processing failed",
				ErrorCode: payments.ErrCodePaymentFailed,
			})
			return
		}

		writeFlat(w, payStatus(result), result)
	}
}

// InvoicePublicGet serves the payment page's invoice read. No session needed.
func InvoicePublicGet(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, nil)
			return
		}

		id, err := parseIDParam(r, "guid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, invoice)
	}
}

func payStatus(result *payments.PayResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.ErrorCode {
	case payments.ErrCodeNotFound:
		return http.StatusNotFound
	case payments.ErrCodeAlreadyPaid:
		return http.StatusConflict
	case payments.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case payments.ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func writeFlat(w http.ResponseWriter, status int, result *payments.PayResult) {
	responses.WriteJSON(w, status, result)
}
