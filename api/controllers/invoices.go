package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/middleware"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/responses"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/validators"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/invoices"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/users"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/pagination"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/types"
)

type createInvoiceRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	DueAt       *time.Time      `json:"dueAt"`
}

type invoicePage struct {
	Items      []invoices.InvoiceDTO `json:"items"`
	Pagination types.Pagination      `json:"pagination"`
}

// InvoiceCreate issues a new invoice for the authenticated merchant.
func InvoiceCreate(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		merchantID, err := requireMerchantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createInvoiceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Create(r.Context(), invoices.CreateInvoiceInput{
			MerchantID:  merchantID,
			Amount:      body.Amount,
			Description: validators.SanitizeString(body.Description, 500),
			DueAt:       body.DueAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

// InvoiceList returns the merchant's invoices, newest first, paginated.
func InvoiceList(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		merchantID, err := requireMerchantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Normalize(pagination.Params{Page: page, PageSize: pageSize})
		items, total, err := svc.GetByMerchant(r.Context(), merchantID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, invoicePage{
			Items: items,
			Pagination: types.Pagination{
				Page:       params.Page,
				PageSize:   params.PageSize,
				TotalCount: total,
				TotalPages: pagination.TotalPages(total, params.PageSize),
			},
		})
	}
}

// InvoiceDelete removes an unpaid invoice. Paid invoices are refused.
func InvoiceDelete(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		merchantID, err := requireMerchantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parseIDParam(r, "guid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id, merchantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// InvoiceMarkPaid manually settles an invoice from the merchant console. The
// endpoint refuses invoices that are already paid; the settlement orchestrator
// is the only caller allowed to drive MarkPaid without that check.
func InvoiceMarkPaid(svc invoices.Service, userSvc userReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		merchantID, err := requireMerchantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
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
		if invoice.MerchantID != merchantID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found"))
			return
		}
		if invoice.IsPaid {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "invoice already paid"))
			return
		}

		paidBy := "merchant"
		if userSvc != nil {
			if userID, err := requireUserID(r); err == nil {
				if user, err := userSvc.GetUser(r.Context(), userID); err == nil {
					paidBy = user.FirstName + " " + user.LastName
				}
			}
		}

		if err := svc.MarkPaid(r.Context(), id, merchantID, paidBy); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "paid"})
	}
}

type userReader interface {
	GetUser(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
}

func requireMerchantID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.MerchantIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "merchant account required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid merchant id")
	}
	return id, nil
}
