package middleware

import (
	"context"
	"net/http"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/responses"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/merchants"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
	"github.com/google/uuid"
)

type merchantResolver interface {
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*merchants.MerchantDTO, error)
}

// Merchant resolves the authenticated user's merchant and seeds the request
// context with its id. Routes behind it require the user to own a merchant.
func Merchant(resolver merchantResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(UserIDFromContext(r.Context()))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			merchant, err := resolver.GetByOwner(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxMerchantID, merchant.ID.String())
			if logg != nil {
				ctx = logg.WithMerchantID(ctx, merchant.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
