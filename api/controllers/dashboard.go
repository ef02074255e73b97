package controllers

import (
	"net/http"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/responses"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/validators"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/dashboard"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
)

// DashboardStats returns the merchant's summary metrics.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		merchantID, err := requireMerchantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// DashboardTransactions returns the merchant's most recent settled invoices.
func DashboardTransactions(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		merchantID, err := requireMerchantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recent, err := svc.RecentTransactions(r.Context(), merchantID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, recent)
	}
}
