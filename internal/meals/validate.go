package meals

import (
	"fmt"
	"net/url"
	"time"

	"github.com/wfjournal/wfj-backend/pkg/db/models"
	"github.com/wfjournal/wfj-backend/pkg/enums"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
)

// Field bounds shared by create and update payloads.
const (
	nameMinLen     = 1
	nameMaxLen     = 200
	cntryCdMinLen  = 1
	cntryCdMaxLen  = 5
	noteMaxLen     = 20000
	locationMinLen = 3
	locationMaxLen = 200
	linkMaxLen     = 1000
	ratingMin      = 0
	ratingMax      = 5
	difficultyMin  = 0
	difficultyMax  = 5

	defaultDifficulty = 3
)

func fieldError(field, constraint string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s %s", field, constraint)).
		WithDetails(map[string]string{field: constraint})
}

// validateCreate checks a full create payload against the bounds and the
// kind-conditional rules: rating is required unless wishlist is true (in which
// case it is forbidden), and variant fields may only appear on their kind.
func validateCreate(kind enums.MealKind, req CreateMealRequest) error {
	if err := checkLen("name", req.Name, nameMinLen, nameMaxLen); err != nil {
		return err
	}
	if err := checkLen("cntryCd", req.CntryCd, cntryCdMinLen, cntryCdMaxLen); err != nil {
		return err
	}
	if req.Note != nil && len(*req.Note) > noteMaxLen {
		return fieldError("note", fmt.Sprintf("must be at most %d characters", noteMaxLen))
	}
	if err := checkRange("rating", req.Rating, ratingMin, ratingMax); err != nil {
		return err
	}

	wishlist := req.Wishlist != nil && *req.Wishlist
	if wishlist && req.Rating != nil {
		return fieldError("rating", "is forbidden when wishlist is true")
	}
	if !wishlist && req.Rating == nil {
		return fieldError("rating", "is required when wishlist is false")
	}

	return validateVariantFields(kind, req.Location, req.Link, req.Difficulty)
}

// validateUpdate checks a partial payload: present fields obey the same
// bounds, and variant fields are still gated by the stored kind. A kind in
// the body is rejected outright, even when it names the stored kind.
func validateUpdate(kind enums.MealKind, req UpdateMealRequest) error {
	if req.Kind != nil {
		return fieldError("kind", fmt.Sprintf("cannot be changed on an existing %q meal", kind))
	}
	if req.Name != nil {
		if err := checkLen("name", *req.Name, nameMinLen, nameMaxLen); err != nil {
			return err
		}
	}
	if req.CntryCd != nil {
		if err := checkLen("cntryCd", *req.CntryCd, cntryCdMinLen, cntryCdMaxLen); err != nil {
			return err
		}
	}
	if req.Note != nil && len(*req.Note) > noteMaxLen {
		return fieldError("note", fmt.Sprintf("must be at most %d characters", noteMaxLen))
	}
	if err := checkRange("rating", req.Rating, ratingMin, ratingMax); err != nil {
		return err
	}
	return validateVariantFields(kind, req.Location, req.Link, req.Difficulty)
}

// validateMerged enforces the wishlist/rating conditional on the document as
// it would be persisted after the partial update is applied.
func validateMerged(meal *models.Meal) error {
	if meal.Wishlist {
		return nil
	}
	if meal.Rating == nil {
		return fieldError("rating", "is required when wishlist is false")
	}
	return nil
}

func validateVariantFields(kind enums.MealKind, location, link *string, difficulty *int) error {
	if location != nil {
		if kind != enums.MealKindRestaurant {
			return fieldError("location", fmt.Sprintf("is only valid for %q meals", enums.MealKindRestaurant))
		}
		if err := checkLen("location", *location, locationMinLen, locationMaxLen); err != nil {
			return err
		}
	}
	if link != nil {
		if kind != enums.MealKindHomemade {
			return fieldError("link", fmt.Sprintf("is only valid for %q meals", enums.MealKindHomemade))
		}
		if len(*link) > linkMaxLen {
			return fieldError("link", fmt.Sprintf("must be at most %d characters", linkMaxLen))
		}
		if parsed, err := url.Parse(*link); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fieldError("link", "must be a valid URL")
		}
	}
	if difficulty != nil {
		if kind != enums.MealKindHomemade {
			return fieldError("difficulty", fmt.Sprintf("is only valid for %q meals", enums.MealKindHomemade))
		}
		if err := checkRange("difficulty", difficulty, difficultyMin, difficultyMax); err != nil {
			return err
		}
	}
	return nil
}

func checkLen(field, value string, min, max int) error {
	if len(value) < min {
		return fieldError(field, fmt.Sprintf("must be at least %d characters", min))
	}
	if len(value) > max {
		return fieldError(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return nil
}

func checkRange(field string, value *int, min, max int) error {
	if value == nil {
		return nil
	}
	if *value < min {
		return fieldError(field, fmt.Sprintf("must be at least %d", min))
	}
	if *value > max {
		return fieldError(field, fmt.Sprintf("must be at most %d", max))
	}
	return nil
}

// normalizeDate defaults a missing date to the current UTC day and truncates
// any supplied timestamp to UTC midnight.
func normalizeDate(value *time.Time, now time.Time) time.Time {
	t := now
	if value != nil {
		t = *value
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
