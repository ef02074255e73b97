package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/responses"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
)

const authCookieName = "authToken"

type sessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.Session, error)
}

// ExtractToken pulls the session token from the request, checking the
// Authorization header first, then the auth cookie, then the query string.
// That order is part of the API contract.
func ExtractToken(r *http.Request) string {
	if raw := strings.TrimSpace(r.Header.Get("Authorization")); raw != "" {
		token := raw
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(authCookieName); err == nil {
		if token := strings.TrimSpace(cookie.Value); token != "" {
			return token
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// Auth resolves the session token against the session authority and seeds the
// request context with the user id.
func Auth(validator sessionValidator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			session, err := validator.ValidateSession(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, session.UserID.String())
			ctx = context.WithValue(ctx, ctxSessionToken, token)
			if logg != nil {
				ctx = logg.WithUserID(ctx, session.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
