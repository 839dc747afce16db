package meals

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/wfjournal/wfj-backend/pkg/db/types"
	"github.com/wfjournal/wfj-backend/pkg/db/models"
	"github.com/wfjournal/wfj-backend/pkg/enums"
)

// CreateMealRequest is the payload for recording a new meal. The owning user
// comes from the authenticated identity, never from the body; unknown fields
// (including userId) are rejected at decode time.
type CreateMealRequest struct {
	Name     string     `json:"name" validate:"required,min=1,max=200"`
	CntryCd  string     `json:"cntryCd" validate:"required,min=1,max=5"`
	Wishlist *bool      `json:"wishlist,omitempty"`
	Rating   *int       `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Date     *time.Time `json:"date,omitempty"`
	Note     *string    `json:"note,omitempty" validate:"omitempty,max=20000"`
	Favorite *bool      `json:"favorite,omitempty"`

	// restr only
	Location *string `json:"location,omitempty" validate:"omitempty,min=3,max=200"`

	// hm only
	Link       *string `json:"link,omitempty" validate:"omitempty,url,max=1000"`
	Difficulty *int    `json:"difficulty,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// UpdateMealRequest is the partial payload for mutating an existing meal.
// Every field is optional; present fields replace the stored value. A kind
// value that differs from the stored kind is rejected (kind is immutable);
// a matching value is tolerated and ignored.
type UpdateMealRequest struct {
	Kind     *string    `json:"kind,omitempty"`
	Name     *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	CntryCd  *string    `json:"cntryCd,omitempty" validate:"omitempty,min=1,max=5"`
	Wishlist *bool      `json:"wishlist,omitempty"`
	Rating   *int       `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Date     *time.Time `json:"date,omitempty"`
	Note     *string    `json:"note,omitempty" validate:"omitempty,max=20000"`
	Favorite *bool      `json:"favorite,omitempty"`

	Location *string `json:"location,omitempty" validate:"omitempty,min=3,max=200"`

	Link       *string `json:"link,omitempty" validate:"omitempty,url,max=1000"`
	Difficulty *int    `json:"difficulty,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// MealDTO mirrors the persisted meal row on the wire.
type MealDTO struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"userId"`
	Kind       enums.MealKind `json:"kind"`
	Name       string         `json:"name"`
	Wishlist   bool           `json:"wishlist"`
	Rating     *int           `json:"rating,omitempty"`
	Date       time.Time      `json:"date"`
	CntryCd    string         `json:"cntryCd"`
	Note       *string        `json:"note,omitempty"`
	Favorite   bool           `json:"favorite"`
	ImgLinks   []string       `json:"imgLinks"`
	Location   *string        `json:"location,omitempty"`
	Link       *string        `json:"link,omitempty"`
	Difficulty *int           `json:"difficulty,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// FromModel converts a persisted meal into its wire shape.
func FromModel(m *models.Meal) *MealDTO {
	if m == nil {
		return nil
	}
	links := m.ImgLinks
	if links == nil {
		links = dbtypes.StringList{}
	}
	return &MealDTO{
		ID:         m.ID,
		UserID:     m.UserID,
		Kind:       m.Kind,
		Name:       m.Name,
		Wishlist:   m.Wishlist,
		Rating:     m.Rating,
		Date:       m.Date,
		CntryCd:    m.CntryCd,
		Note:       m.Note,
		Favorite:   m.Favorite,
		ImgLinks:   append([]string(nil), links...),
		Location:   m.Location,
		Link:       m.Link,
		Difficulty: m.Difficulty,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// Filter narrows the read surface; zero values mean "no constraint".
type Filter struct {
	Kind      *enums.MealKind
	Wishlist  *bool
	MinRating *int
	MaxRating *int
	MinDiff   *int
	MaxDiff   *int
	CntryCds  []string
	Name      string
	MinDate   *time.Time
	MaxDate   *time.Time
}
