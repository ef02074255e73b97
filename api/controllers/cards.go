package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/responses"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/validators"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/cards"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
)

type createCardRequest struct {
	HolderFirstName string          `json:"holderFirstName" validate:"required"`
	HolderLastName  string          `json:"holderLastName" validate:"required"`
	Number          string          `json:"number" validate:"required"`
	ExpMonth        int             `json:"expMonth" validate:"required"`
	ExpYear         int             `json:"expYear" validate:"required"`
	CVV             string          `json:"cvv" validate:"required"`
	Balance         decimal.Decimal `json:"balance"`
}

type updateCardRequest struct {
	HolderFirstName *string          `json:"holderFirstName"`
	HolderLastName  *string          `json:"holderLastName"`
	Number          *string          `json:"number"`
	ExpMonth        *int             `json:"expMonth"`
	ExpYear         *int             `json:"expYear"`
	CVV             *string          `json:"cvv"`
	Balance         *decimal.Decimal `json:"balance"`
}

// CardCreate registers a new card instrument.
func CardCreate(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}

		var body createCardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.Create(r.Context(), cards.CreateCardInput{
			HolderFirstName: body.HolderFirstName,
			HolderLastName:  body.HolderLastName,
			Number:          body.Number,
			ExpMonth:        body.ExpMonth,
			ExpYear:         body.ExpYear,
			CVV:             body.CVV,
			Balance:         body.Balance,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, card)
	}
}

// CardList returns every stored card.
func CardList(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}

		all, err := svc.GetAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, all)
	}
}

// CardGet returns a single card by id.
func CardGet(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, card)
	}
}

// CardUpdate applies a partial card update.
func CardUpdate(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.Update(r.Context(), id, cards.UpdateCardInput{
			HolderFirstName: body.HolderFirstName,
			HolderLastName:  body.HolderLastName,
			Number:          body.Number,
			ExpMonth:        body.ExpMonth,
			ExpYear:         body.ExpYear,
			CVV:             body.CVV,
			Balance:         body.Balance,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, card)
	}
}

// CardDelete removes a card.
func CardDelete(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return id, nil
}
