package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/responses"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/validators"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/merchants"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/transactions"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/pagination"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/types"
)

type createMerchantRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	LogoURL     string `json:"logoUrl"`
}

type updateMerchantRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logoUrl"`
	Code        *string `json:"code"`
}

type addBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transactionPage struct {
	Items      []transactions.TransactionDTO `json:"items"`
	Pagination types.Pagination              `json:"pagination"`
}

// MerchantCreate opens a merchant account for the authenticated user. Each
// user may own at most one merchant.
func MerchantCreate(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchant service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createMerchantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		merchant, err := svc.Create(r.Context(), merchants.CreateMerchantInput{
			Name:        validators.SanitizeString(body.Name, 200),
			Description: validators.SanitizeString(body.Description, 1000),
			LogoURL:     validators.SanitizeString(body.LogoURL, 500),
			OwnerUserID: userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, merchant)
	}
}

// MerchantGet returns the authenticated user's merchant.
func MerchantGet(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchant service unavailable"))
			return
		}

		merchantID, err := requireMerchantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		merchant, err := svc.GetByID(r.Context(), merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, merchant)
	}
}

// MerchantUpdate applies a partial update to the owner's merchant.
func MerchantUpdate(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchant service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		merchantID, err := requireMerchantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateMerchantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		merchant, err := svc.Edit(r.Context(), merchantID, userID, merchants.UpdateMerchantInput{
			Name:        body.Name,
			Description: body.Description,
			LogoURL:     body.LogoURL,
			Code:        body.Code,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, merchant)
	}
}

// MerchantAddBalance credits the merchant through the fee-adjusted top-up
// path. Settlement credits never route through this endpoint.
func MerchantAddBalance(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchant service unavailable"))
			return
		}

		merchantID, err := requireMerchantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addBalanceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.AddBalance(r.Context(), merchantID, body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"balance": balance})
	}
}

// MerchantTransactions lists the merchant's audit-log entries, newest first.
func MerchantTransactions(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transaction service unavailable"))
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

		responses.WriteSuccess(w, transactionPage{
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
