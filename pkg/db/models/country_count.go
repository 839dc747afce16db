package models

import (
	"time"

	"github.com/google/uuid"
)

// CountryCount is the per-(user, country) aggregate row backing the map
// tooltips. Exactly one row exists per pair; each non-deleted meal counts
// toward exactly one of the four buckets. Rows are created lazily on the
// first entry for a pair and never pruned, even at all-zero counters.
type CountryCount struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:country_counts_user_cntry_key" json:"userId"`
	CntryCd   string    `gorm:"column:cntry_cd;type:text;not null;uniqueIndex:country_counts_user_cntry_key" json:"cntryCd"`
	Restr     int       `gorm:"column:restr;not null;default:0" json:"restr"`
	Hm        int       `gorm:"column:hm;not null;default:0" json:"hm"`
	Other     int       `gorm:"column:other;not null;default:0" json:"other"`
	Wishlist  int       `gorm:"column:wishlist;not null;default:0" json:"wishlist"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Total sums the four buckets; it equals the number of live meals for the pair.
func (c CountryCount) Total() int {
	return c.Restr + c.Hm + c.Other + c.Wishlist
}
