package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMealKind(t *testing.T) {
	for raw, want := range map[string]MealKind{
		"restr": MealKindRestaurant,
		"hm":    MealKindHomemade,
		"other": MealKindOther,
	} {
		kind, err := ParseMealKind(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, kind)
	}

	for _, raw := range []string{"", "restaurant", "homemade", "RESTR", "wishlist"} {
		_, err := ParseMealKind(raw)
		assert.Error(t, err, raw)
	}
}

func TestMealKindIsValid(t *testing.T) {
	assert.True(t, MealKindRestaurant.IsValid())
	assert.True(t, MealKindHomemade.IsValid())
	assert.True(t, MealKindOther.IsValid())
	assert.False(t, MealKind("wishlist").IsValid())
	assert.False(t, MealKind("").IsValid())
}
