package enums

import "fmt"

// MealKind discriminates the three journal entry variants.
type MealKind string

const (
	MealKindRestaurant MealKind = "restr"
	MealKindHomemade   MealKind = "hm"
	MealKindOther      MealKind = "other"
)

var validMealKinds = []MealKind{
	MealKindRestaurant,
	MealKindHomemade,
	MealKindOther,
}

// String returns the literal string for the kind.
func (m MealKind) String() string {
	return string(m)
}

// IsValid reports whether the kind is known.
func (m MealKind) IsValid() bool {
	for _, candidate := range validMealKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMealKind converts raw input into a MealKind.
func ParseMealKind(value string) (MealKind, error) {
	for _, candidate := range validMealKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf(`invalid meal kind %q, please use "restr", "hm", or "other"`, value)
}
