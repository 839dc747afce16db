package validators

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
)

func TestParseMealFilterDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/meals", nil)

	filter, err := ParseMealFilter(r)
	require.NoError(t, err)
	assert.Nil(t, filter.Wishlist)
	assert.Nil(t, filter.MinRating)
	assert.Nil(t, filter.MaxRating)
	assert.Empty(t, filter.CntryCds)
	assert.Empty(t, filter.Name)
	assert.Nil(t, filter.MinDate)
	assert.Nil(t, filter.MaxDate)
}

func TestParseMealFilterFullQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/v1/meals?wishlist=true&minRating=2&maxRating=5&minDiff=1&maxDiff=4&cntryCd=JP,FR&cntryCd=IT&name=%20ramen%20&minDateUTC=2026-01-01&maxDateUTC=2026-06-30T18:00:00Z", nil)

	filter, err := ParseMealFilter(r)
	require.NoError(t, err)

	require.NotNil(t, filter.Wishlist)
	assert.True(t, *filter.Wishlist)
	require.NotNil(t, filter.MinRating)
	assert.Equal(t, 2, *filter.MinRating)
	require.NotNil(t, filter.MaxRating)
	assert.Equal(t, 5, *filter.MaxRating)
	require.NotNil(t, filter.MinDiff)
	assert.Equal(t, 1, *filter.MinDiff)
	require.NotNil(t, filter.MaxDiff)
	assert.Equal(t, 4, *filter.MaxDiff)
	assert.Equal(t, []string{"JP", "FR", "IT"}, filter.CntryCds)
	assert.Equal(t, "ramen", filter.Name)

	require.NotNil(t, filter.MinDate)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *filter.MinDate)
	require.NotNil(t, filter.MaxDate)
	assert.Equal(t, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), *filter.MaxDate)
}

func TestParseMealFilterBadValues(t *testing.T) {
	cases := map[string]string{
		"wishlist=maybe":      "wishlist",
		"minRating=five":      "minRating",
		"maxDiff=hard":        "maxDiff",
		"minDateUTC=tomorrow": "minDateUTC",
	}
	for query, param := range cases {
		r := httptest.NewRequest("GET", "/api/v1/meals?"+query, nil)
		_, err := ParseMealFilter(r)
		require.Error(t, err, query)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		assert.Contains(t, typed.Message(), param)
	}
}
