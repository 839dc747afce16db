package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wfjournal/wfj-backend/api/middleware"
	"github.com/wfjournal/wfj-backend/api/responses"
	"github.com/wfjournal/wfj-backend/api/validators"
	"github.com/wfjournal/wfj-backend/internal/meals"
	"github.com/wfjournal/wfj-backend/pkg/logger"
)

func MealCreate(service meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := validators.PathMealKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req meals.CreateMealRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		dto, err := service.Create(r.Context(), userID, kind, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func MealUpdate(service meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := validators.PathMealKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mealID, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req meals.UpdateMealRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		dto, err := service.Update(r.Context(), userID, kind, mealID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func MealDelete(service meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mealID, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		dto, err := service.Delete(r.Context(), userID, mealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func MealGet(service meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mealID, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		dto, err := service.Get(r.Context(), userID, mealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func MealList(service meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := validators.ParseMealFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listMeals(service, logg, w, r, filter)
	}
}

// MealListByKind narrows the filtered list to a single journal kind.
func MealListByKind(service meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := validators.PathMealKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter, err := validators.ParseMealFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.Kind = &kind

		listMeals(service, logg, w, r, filter)
	}
}

// MealListByCountry narrows the filtered list to one country code.
func MealListByCountry(service meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := validators.ParseMealFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.CntryCds = []string{chi.URLParam(r, "cntryCd")}

		listMeals(service, logg, w, r, filter)
	}
}

func listMeals(service meals.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request, filter meals.Filter) {
	userID := middleware.UserIDFromContext(r.Context())
	dtos, err := service.List(r.Context(), userID, filter)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	responses.WriteList(w, dtos, len(dtos))
}
