package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wfjournal/wfj-backend/api/middleware"
	"github.com/wfjournal/wfj-backend/api/responses"
	"github.com/wfjournal/wfj-backend/internal/countrycounts"
	"github.com/wfjournal/wfj-backend/pkg/logger"
)

func CountryCountList(service countrycounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		dtos, err := service.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteList(w, dtos, len(dtos))
	}
}

func CountryCountGet(service countrycounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		dto, err := service.Get(r.Context(), userID, chi.URLParam(r, "cntryCd"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
