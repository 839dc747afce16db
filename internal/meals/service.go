package meals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/wfjournal/wfj-backend/internal/countrycounts"
	"github.com/wfjournal/wfj-backend/pkg/db"
	"github.com/wfjournal/wfj-backend/pkg/db/models"
	dbtypes "github.com/wfjournal/wfj-backend/pkg/db/types"
	"github.com/wfjournal/wfj-backend/pkg/enums"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
	"github.com/wfjournal/wfj-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	conflictRetries = 2
	conflictBackoff = 25 * time.Millisecond
)

// txRunner abstracts the transactional entry point so tests can substitute an
// sqlite-backed client.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service coordinates meal mutations with their aggregate counter updates.
// Every write leaves exactly one CountryCount bucket consistent with the
// mutation or rolls back entirely.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, kind enums.MealKind, req CreateMealRequest) (*MealDTO, error)
	Update(ctx context.Context, userID uuid.UUID, kind enums.MealKind, mealID uuid.UUID, req UpdateMealRequest) (*MealDTO, error)
	Delete(ctx context.Context, userID, mealID uuid.UUID) (*MealDTO, error)

	Get(ctx context.Context, userID, mealID uuid.UUID) (*MealDTO, error)
	List(ctx context.Context, userID uuid.UUID, filter Filter) ([]MealDTO, error)
}

// ServiceParams bundles the coordinator's dependencies.
type ServiceParams struct {
	TxRunner  txRunner
	MealRepo  *Repository
	CountRepo *countrycounts.Repository
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	tx     txRunner
	meals  *Repository
	counts *countrycounts.Repository
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the meal coordinator.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.MealRepo == nil {
		return nil, fmt.Errorf("meal repository is required")
	}
	if params.CountRepo == nil {
		return nil, fmt.Errorf("country count repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		tx:     params.TxRunner,
		meals:  params.MealRepo,
		counts: params.CountRepo,
		logg:   params.Logger,
		now:    now,
	}, nil
}

// Create validates the payload, then atomically seeds-or-increments the one
// relevant counter bucket and inserts the meal row.
func (s *service) Create(ctx context.Context, userID uuid.UUID, kind enums.MealKind, req CreateMealRequest) (*MealDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid meal kind %q", kind))
	}
	if err := validateCreate(kind, req); err != nil {
		return nil, err
	}

	meal := s.buildMeal(userID, kind, req)
	bucket := meal.Bucket()

	err := s.runWithConflictRetry(ctx, func(tx *gorm.DB) error {
		counts := s.counts.WithTx(tx)
		applied, err := counts.IncrementBucket(ctx, userID, meal.CntryCd, bucket)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment country count")
		}
		if !applied {
			if err := counts.Seed(ctx, userID, meal.CntryCd, bucket); err != nil {
				// A concurrent create seeded first; surfaces as a unique
				// violation and is retried, landing on the increment path.
				return err
			}
		}
		if err := s.meals.WithTx(tx).Create(ctx, meal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert meal")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(meal), nil
}

// Update merges the partial payload onto the stored meal and shifts counter
// buckets when the wishlist flag flips. Counter adjustments key off the
// meal's pre-update country code; a changed cntryCd does not re-home the
// counter row.
func (s *service) Update(ctx context.Context, userID uuid.UUID, kind enums.MealKind, mealID uuid.UUID, req UpdateMealRequest) (*MealDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid meal kind %q", kind))
	}
	if err := validateUpdate(kind, req); err != nil {
		return nil, err
	}

	var updated *models.Meal
	err := s.runWithConflictRetry(ctx, func(tx *gorm.DB) error {
		mealRepo := s.meals.WithTx(tx)
		meal, err := mealRepo.FindByIDAndKind(ctx, userID, mealID, kind)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load meal")
		}

		oldCntryCd := meal.CntryCd
		oldBucket := meal.Bucket()
		wishlistBefore := meal.Wishlist

		applyUpdate(meal, req)
		if err := validateMerged(meal); err != nil {
			return err
		}

		if meal.Wishlist != wishlistBefore {
			applied, err := s.counts.WithTx(tx).ShiftBucket(ctx, userID, oldCntryCd, oldBucket, meal.Bucket())
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "shift country count bucket")
			}
			if !applied {
				s.logConsistency(ctx, userID, oldCntryCd, mealID, "bucket shift found no counter to move")
				return pkgerrors.New(pkgerrors.CodeConsistency,
					fmt.Sprintf("country count for %q is missing or empty for bucket %q", oldCntryCd, oldBucket)).
					WithDetails(map[string]string{"cntryCd": oldCntryCd, "bucket": oldBucket})
			}
		}

		if err := mealRepo.Save(ctx, meal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save meal")
		}
		updated = meal
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(updated), nil
}

// Delete removes the meal and decrements its bucket. A meal without a
// counter row is a detected invariant violation: the whole unit of work rolls
// back and the anomaly is logged.
func (s *service) Delete(ctx context.Context, userID, mealID uuid.UUID) (*MealDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}

	var deleted *models.Meal
	err := s.runWithConflictRetry(ctx, func(tx *gorm.DB) error {
		mealRepo := s.meals.WithTx(tx)
		meal, err := mealRepo.FindByID(ctx, userID, mealID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load meal")
		}

		if _, err := mealRepo.Delete(ctx, userID, mealID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete meal")
		}

		applied, err := s.counts.WithTx(tx).DecrementBucket(ctx, userID, meal.CntryCd, meal.Bucket())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement country count")
		}
		if !applied {
			s.logConsistency(ctx, userID, meal.CntryCd, mealID, "delete found no counter to decrement")
			return pkgerrors.New(pkgerrors.CodeConsistency,
				fmt.Sprintf("country count for %q is missing or empty for bucket %q", meal.CntryCd, meal.Bucket())).
				WithDetails(map[string]string{"cntryCd": meal.CntryCd, "bucket": meal.Bucket()})
		}

		deleted = meal
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(deleted), nil
}

// Get returns one meal owned by the user.
func (s *service) Get(ctx context.Context, userID, mealID uuid.UUID) (*MealDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}
	meal, err := s.meals.FindByID(ctx, userID, mealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load meal")
	}
	return FromModel(meal), nil
}

// List returns the user's meals narrowed by the filter.
func (s *service) List(ctx context.Context, userID uuid.UUID, filter Filter) ([]MealDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}
	rows, err := s.meals.List(ctx, userID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list meals")
	}
	dtos := make([]MealDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

// runWithConflictRetry wraps the transactional unit of work and retries
// transient write conflicts (serialization aborts, counter seed races) a
// bounded number of times before surfacing the error.
func (s *service) runWithConflictRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	backoff := retry.WithMaxRetries(conflictRetries, retry.NewConstant(conflictBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.tx.WithTx(ctx, fn)
		if err == nil {
			return nil
		}
		if pkgerrors.As(err) == nil && (db.IsSerializationFailure(err) || db.IsUniqueViolation(err)) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *service) buildMeal(userID uuid.UUID, kind enums.MealKind, req CreateMealRequest) *models.Meal {
	meal := &models.Meal{
		ID:       uuid.New(),
		UserID:   userID,
		Kind:     kind,
		Name:     req.Name,
		CntryCd:  req.CntryCd,
		Rating:   req.Rating,
		Note:     req.Note,
		Date:     normalizeDate(req.Date, s.now()),
		ImgLinks: dbtypes.StringList{},
	}
	if req.Wishlist != nil {
		meal.Wishlist = *req.Wishlist
	}
	if req.Favorite != nil {
		meal.Favorite = *req.Favorite
	}

	switch kind {
	case enums.MealKindRestaurant:
		meal.Location = req.Location
	case enums.MealKindHomemade:
		meal.Link = req.Link
		meal.Difficulty = req.Difficulty
		if meal.Difficulty == nil {
			d := defaultDifficulty
			meal.Difficulty = &d
		}
	}

	return meal
}

// applyUpdate merges present fields onto the stored meal; new value wins,
// absent fields retain the stored value.
func applyUpdate(meal *models.Meal, req UpdateMealRequest) {
	if req.Name != nil {
		meal.Name = *req.Name
	}
	if req.CntryCd != nil {
		meal.CntryCd = *req.CntryCd
	}
	if req.Wishlist != nil {
		meal.Wishlist = *req.Wishlist
	}
	if req.Rating != nil {
		meal.Rating = req.Rating
	}
	if req.Date != nil {
		meal.Date = normalizeDate(req.Date, *req.Date)
	}
	if req.Note != nil {
		meal.Note = req.Note
	}
	if req.Favorite != nil {
		meal.Favorite = *req.Favorite
	}
	if req.Location != nil {
		meal.Location = req.Location
	}
	if req.Link != nil {
		meal.Link = req.Link
	}
	if req.Difficulty != nil {
		meal.Difficulty = req.Difficulty
	}
}

func (s *service) logConsistency(ctx context.Context, userID uuid.UUID, cntryCd string, mealID uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithUserID(ctx, userID.String())
	ctx = s.logg.WithCountryCode(ctx, cntryCd)
	ctx = s.logg.WithFields(ctx, map[string]any{"meal_id": mealID.String()})
	s.logg.Error(ctx, "aggregate invariant violation: "+msg, nil)
}
