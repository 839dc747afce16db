package meals

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfjournal/wfj-backend/pkg/enums"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
)

func requireValidationError(t *testing.T, err error, wantSubstrings ...string) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	for _, want := range wantSubstrings {
		assert.Contains(t, typed.Message(), want)
	}
}

func validCreate() CreateMealRequest {
	return CreateMealRequest{
		Name:    "Khachapuri",
		CntryCd: "GE",
		Rating:  intPtr(4),
	}
}

func TestValidateCreateBounds(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		req := validCreate()
		req.Name = ""
		requireValidationError(t, validateCreate(enums.MealKindOther, req), "name", "1")
	})

	t.Run("name too long", func(t *testing.T) {
		req := validCreate()
		req.Name = strings.Repeat("a", nameMaxLen+1)
		requireValidationError(t, validateCreate(enums.MealKindOther, req), "name", "200")
	})

	t.Run("cntryCd too long", func(t *testing.T) {
		req := validCreate()
		req.CntryCd = "TOOLONG"
		requireValidationError(t, validateCreate(enums.MealKindOther, req), "cntryCd", "5")
	})

	t.Run("note too long", func(t *testing.T) {
		req := validCreate()
		note := strings.Repeat("n", noteMaxLen+1)
		req.Note = &note
		requireValidationError(t, validateCreate(enums.MealKindOther, req), "note", "20000")
	})

	t.Run("rating above max", func(t *testing.T) {
		req := validCreate()
		req.Rating = intPtr(6)
		requireValidationError(t, validateCreate(enums.MealKindOther, req), "rating", "5")
	})

	t.Run("rating below min", func(t *testing.T) {
		req := validCreate()
		req.Rating = intPtr(-1)
		requireValidationError(t, validateCreate(enums.MealKindOther, req), "rating", "0")
	})

	t.Run("rating at bounds accepted", func(t *testing.T) {
		for _, rating := range []int{0, 5} {
			req := validCreate()
			req.Rating = intPtr(rating)
			assert.NoError(t, validateCreate(enums.MealKindOther, req))
		}
	})
}

func TestValidateCreateVariantGating(t *testing.T) {
	t.Run("location only on restaurant", func(t *testing.T) {
		req := validCreate()
		req.Location = strPtr("Corner table")
		requireValidationError(t, validateCreate(enums.MealKindOther, req), "location")
		assert.NoError(t, validateCreate(enums.MealKindRestaurant, req))
	})

	t.Run("location too short", func(t *testing.T) {
		req := validCreate()
		req.Location = strPtr("ab")
		requireValidationError(t, validateCreate(enums.MealKindRestaurant, req), "location", "3")
	})

	t.Run("link only on homemade", func(t *testing.T) {
		req := validCreate()
		req.Link = strPtr("https://example.com/recipe")
		requireValidationError(t, validateCreate(enums.MealKindRestaurant, req), "link")
		assert.NoError(t, validateCreate(enums.MealKindHomemade, req))
	})

	t.Run("link must be a url", func(t *testing.T) {
		req := validCreate()
		req.Link = strPtr("not a url")
		requireValidationError(t, validateCreate(enums.MealKindHomemade, req), "link", "URL")
	})

	t.Run("difficulty only on homemade", func(t *testing.T) {
		req := validCreate()
		req.Difficulty = intPtr(2)
		requireValidationError(t, validateCreate(enums.MealKindRestaurant, req), "difficulty")
		assert.NoError(t, validateCreate(enums.MealKindHomemade, req))
	})

	t.Run("difficulty above max", func(t *testing.T) {
		req := validCreate()
		req.Difficulty = intPtr(6)
		requireValidationError(t, validateCreate(enums.MealKindHomemade, req), "difficulty", "5")
	})
}

func TestValidateUpdateKindImmutable(t *testing.T) {
	err := validateUpdate(enums.MealKindRestaurant, UpdateMealRequest{Kind: strPtr("hm")})
	requireValidationError(t, err, "kind", "cannot be changed", "restr")

	// Echoing the stored kind back is rejected the same way.
	err = validateUpdate(enums.MealKindRestaurant, UpdateMealRequest{Kind: strPtr("restr")})
	requireValidationError(t, err, "kind", "cannot be changed")
}

func TestValidateUpdatePresentFieldBounds(t *testing.T) {
	requireValidationError(t,
		validateUpdate(enums.MealKindOther, UpdateMealRequest{Name: strPtr("")}),
		"name", "1")

	requireValidationError(t,
		validateUpdate(enums.MealKindOther, UpdateMealRequest{Rating: intPtr(9)}),
		"rating", "5")

	assert.NoError(t, validateUpdate(enums.MealKindOther, UpdateMealRequest{}))
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	in := time.Date(2026, 7, 1, 23, 45, 0, 0, loc)
	got := normalizeDate(&in, in)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}
