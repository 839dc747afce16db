package controllers

import (
	"net/http"

	"github.com/wfjournal/wfj-backend/api/middleware"
	"github.com/wfjournal/wfj-backend/api/responses"
	"github.com/wfjournal/wfj-backend/api/validators"
	"github.com/wfjournal/wfj-backend/internal/images"
	"github.com/wfjournal/wfj-backend/pkg/config"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
	"github.com/wfjournal/wfj-backend/pkg/logger"
)

const imageFormField = "image"

func ImageUpload(service images.Service, cfg config.ImagesConfig, logg *logger.Logger) http.HandlerFunc {
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

		maxBytes := int64(cfg.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image upload must be multipart form data"))
			return
		}

		file, header, err := r.FormFile(imageFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "image file field is required").
					WithDetails(map[string]string{imageFormField: "required"}))
			return
		}
		defer file.Close()

		userID := middleware.UserIDFromContext(r.Context())
		result, err := service.Upload(r.Context(), userID, kind, mealID, images.UploadInput{
			FileName: header.Filename,
			Content:  file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func ImageDelete(service images.Service, logg *logger.Logger) http.HandlerFunc {
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
		index, err := validators.PathIndex(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		result, err := service.DeleteByIndex(r.Context(), userID, kind, mealID, index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
