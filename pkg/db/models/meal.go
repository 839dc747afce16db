package models

import (
	"time"

	dbtypes "github.com/wfjournal/wfj-backend/pkg/db/types"
	"github.com/wfjournal/wfj-backend/pkg/enums"
	"github.com/google/uuid"
)

// Meal is a journal entry for a single eating experience. The kind column
// discriminates the three variants; variant-only columns are nullable and
// populated only for the owning kind (location for restr, link/difficulty
// for hm).
type Meal struct {
	ID       uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index:meals_user_cntry_idx;index:meals_user_kind_idx" json:"userId"`
	Kind     enums.MealKind     `gorm:"column:kind;type:text;not null;index:meals_user_kind_idx" json:"kind"`
	Name     string             `gorm:"column:name;type:text;not null" json:"name"`
	Wishlist bool               `gorm:"column:wishlist;not null;default:false" json:"wishlist"`
	Rating   *int               `gorm:"column:rating" json:"rating,omitempty"`
	Date     time.Time          `gorm:"column:date;not null" json:"date"`
	CntryCd  string             `gorm:"column:cntry_cd;type:text;not null;index:meals_user_cntry_idx" json:"cntryCd"`
	Note     *string            `gorm:"column:note;type:text" json:"note,omitempty"`
	Favorite bool               `gorm:"column:favorite;not null;default:false" json:"favorite"`
	ImgLinks dbtypes.StringList `gorm:"column:img_links;type:text;not null;default:'[]'" json:"imgLinks"`

	// restr only
	Location *string `gorm:"column:location;type:text" json:"location,omitempty"`

	// hm only
	Link       *string `gorm:"column:link;type:text" json:"link,omitempty"`
	Difficulty *int    `gorm:"column:difficulty" json:"difficulty,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Bucket names the CountryCount counter this meal occupies: the wishlist
// bucket when flagged, otherwise the bucket matching its kind.
func (m Meal) Bucket() string {
	if m.Wishlist {
		return "wishlist"
	}
	return m.Kind.String()
}
