package controllers

import (
	"net/http"
	"strings"

	"github.com/dmoralesv/floreria-backend/api/responses"
	"github.com/dmoralesv/floreria-backend/api/validators"
	businesssvc "github.com/dmoralesv/floreria-backend/internal/business"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
	"github.com/dmoralesv/floreria-backend/pkg/logger"
)

// GetBusinessProfile serves the storefront contact block.
func GetBusinessProfile(svc businesssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "business service unavailable"))
			return
		}

		profile, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// AdminUpsertBusinessProfile saves the single business profile row.
func AdminUpsertBusinessProfile(svc businesssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "business service unavailable"))
			return
		}

		var payload businessProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Upsert(r.Context(), businesssvc.UpsertInput{
			StoreName:     strings.TrimSpace(payload.StoreName),
			WhatsAppPhone: strings.TrimSpace(payload.WhatsAppPhone),
			LandlinePhone: payload.LandlinePhone,
			Address:       payload.Address,
			LocationURL:   payload.LocationURL,
			Schedule:      payload.Schedule,
			Email:         payload.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

type businessProfileRequest struct {
	StoreName     string  `json:"store_name" validate:"required"`
	WhatsAppPhone string  `json:"whatsapp_phone" validate:"required"`
	LandlinePhone *string `json:"landline_phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	LocationURL   *string `json:"location_url,omitempty"`
	Schedule      *string `json:"schedule,omitempty"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
}
