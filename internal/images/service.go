package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/wfjournal/wfj-backend/pkg/config"
	"github.com/wfjournal/wfj-backend/pkg/db/models"
	"github.com/wfjournal/wfj-backend/pkg/enums"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
	"github.com/wfjournal/wfj-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

var allowedMimeTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type mealStore interface {
	FindByIDAndKind(ctx context.Context, userID, id uuid.UUID, kind enums.MealKind) (*models.Meal, error)
	UpdateImgLinks(ctx context.Context, userID, id uuid.UUID, kind enums.MealKind, links []string) (bool, error)
}

type blobStore interface {
	Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, objectName string) error
	ObjectName(parts ...string) string
	ObjectNameFromURL(publicURL string) (string, bool)
}

// UploadInput carries one multipart image part.
type UploadInput struct {
	FileName string
	Content  io.Reader
}

// UploadResult reports where the link landed in the meal's imgLinks array.
type UploadResult struct {
	Index   int    `json:"index"`
	ImgLink string `json:"imgLink"`
}

// DeleteResult returns the removed link.
type DeleteResult struct {
	Removed string `json:"removed"`
}

// Service attaches blob-store images to meals. Array mutations are
// single-field updates independent of the counter coordinator.
type Service interface {
	Upload(ctx context.Context, userID uuid.UUID, kind enums.MealKind, mealID uuid.UUID, input UploadInput) (*UploadResult, error)
	DeleteByIndex(ctx context.Context, userID uuid.UUID, kind enums.MealKind, mealID uuid.UUID, index int) (*DeleteResult, error)
}

// ServiceParams bundles the image service dependencies.
type ServiceParams struct {
	Meals  mealStore
	Blobs  blobStore
	Logger *logger.Logger
	Config config.ImagesConfig
}

type service struct {
	meals    mealStore
	blobs    blobStore
	logg     *logger.Logger
	maxBytes int64
}

// NewService builds the image attachment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Meals == nil {
		return nil, fmt.Errorf("meal store is required")
	}
	if params.Blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	maxMB := params.Config.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &service{
		meals:    params.Meals,
		blobs:    params.Blobs,
		logg:     params.Logger,
		maxBytes: int64(maxMB) * 1024 * 1024,
	}, nil
}

// Upload sniffs the image content, stores it, and appends the public URL to
// the meal's imgLinks.
func (s *service) Upload(ctx context.Context, userID uuid.UUID, kind enums.MealKind, mealID uuid.UUID, input UploadInput) (*UploadResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid meal kind %q", kind))
	}
	if input.Content == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image content is required").
			WithDetails(map[string]string{"image": "required"})
	}

	content, err := io.ReadAll(io.LimitReader(input.Content, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload")
	}
	if len(content) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image content is required").
			WithDetails(map[string]string{"image": "required"})
	}
	if int64(len(content)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("image exceeds the %d MB upload limit", s.maxBytes/(1024*1024))).
			WithDetails(map[string]string{"image": "too large"})
	}

	detected := mimetype.Detect(content)
	ext, ok := allowedMimeTypes[detected.String()]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unsupported image type %q, expected png, jpeg, webp, or gif", detected.String())).
			WithDetails(map[string]string{"image": "unsupported type"})
	}

	meal, err := s.loadMeal(ctx, userID, mealID, kind)
	if err != nil {
		return nil, err
	}

	objectName := s.blobs.ObjectName(userID.String(), mealID.String(), uuid.NewString()+extensionFor(input.FileName, ext))
	publicURL, err := s.blobs.Upload(ctx, objectName, detected.String(), bytes.NewReader(content))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
	}

	links := append(append([]string(nil), meal.ImgLinks...), publicURL)
	applied, err := s.meals.UpdateImgLinks(ctx, userID, mealID, kind, links)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append image link")
	}
	if !applied {
		// The meal vanished between load and update; drop the orphan blob.
		s.cleanupBlob(ctx, objectName)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
	}

	return &UploadResult{Index: len(links) - 1, ImgLink: publicURL}, nil
}

// DeleteByIndex removes one link from the meal's imgLinks and best-effort
// deletes the backing object. A failed blob delete is logged, not surfaced:
// the journal entry is already consistent.
func (s *service) DeleteByIndex(ctx context.Context, userID uuid.UUID, kind enums.MealKind, mealID uuid.UUID, index int) (*DeleteResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid meal kind %q", kind))
	}

	meal, err := s.loadMeal(ctx, userID, mealID, kind)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(meal.ImgLinks) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("index %d is out of range, meal has %d images", index, len(meal.ImgLinks))).
			WithDetails(map[string]string{"index": "out of range"})
	}

	removed := meal.ImgLinks[index]
	links := append(append([]string(nil), meal.ImgLinks[:index]...), meal.ImgLinks[index+1:]...)

	applied, err := s.meals.UpdateImgLinks(ctx, userID, mealID, kind, links)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove image link")
	}
	if !applied {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
	}

	if objectName, ok := s.blobs.ObjectNameFromURL(removed); ok {
		s.cleanupBlob(ctx, objectName)
	}

	return &DeleteResult{Removed: removed}, nil
}

func (s *service) loadMeal(ctx context.Context, userID, mealID uuid.UUID, kind enums.MealKind) (*models.Meal, error) {
	meal, err := s.meals.FindByIDAndKind(ctx, userID, mealID, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load meal")
	}
	return meal, nil
}

// cleanupBlob accumulates delete failures so one log line carries the whole
// cleanup outcome.
func (s *service) cleanupBlob(ctx context.Context, objectNames ...string) {
	var errs error
	for _, name := range objectNames {
		if err := s.blobs.Delete(ctx, name); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("delete %s: %w", name, err))
		}
	}
	if errs != nil && s.logg != nil {
		s.logg.Warn(ctx, "orphaned blob cleanup failed: "+errs.Error())
	}
}

func extensionFor(fileName, fallback string) string {
	if ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName))); ext != "" && len(ext) <= 5 {
		return ext
	}
	return fallback
}
