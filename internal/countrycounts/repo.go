package countrycounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wfjournal/wfj-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Bucket names map 1:1 onto counter columns; anything else is rejected before
// it can reach SQL.
var validBuckets = map[string]struct{}{
	"restr":    {},
	"hm":       {},
	"other":    {},
	"wishlist": {},
}

// Repository encapsulates country-count persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a country-count repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByUser returns every counter row belonging to the user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CountryCount, error) {
	var rows []models.CountryCount
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("cntry_cd ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByUserAndCountry loads the counter row for one (user, country) pair.
func (r *Repository) FindByUserAndCountry(ctx context.Context, userID uuid.UUID, cntryCd string) (*models.CountryCount, error) {
	var row models.CountryCount
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND cntry_cd = ?", userID, cntryCd).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Seed inserts a fresh counter row with the named bucket set to 1. A unique
// index on (user_id, cntry_cd) catches concurrent seeds of the same pair.
func (r *Repository) Seed(ctx context.Context, userID uuid.UUID, cntryCd, bucket string) error {
	if err := checkBucket(bucket); err != nil {
		return err
	}

	row := models.CountryCount{
		ID:      uuid.New(),
		UserID:  userID,
		CntryCd: cntryCd,
	}
	switch bucket {
	case "restr":
		row.Restr = 1
	case "hm":
		row.Hm = 1
	case "other":
		row.Other = 1
	case "wishlist":
		row.Wishlist = 1
	}

	return r.db.WithContext(ctx).Create(&row).Error
}

// IncrementBucket bumps the named bucket on an existing row. It reports false
// when no row exists for the pair, leaving seeding to the caller.
func (r *Repository) IncrementBucket(ctx context.Context, userID uuid.UUID, cntryCd, bucket string) (bool, error) {
	if err := checkBucket(bucket); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE country_counts SET %s = %s + 1, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND cntry_cd = ?`, bucket, bucket),
		userID, cntryCd,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DecrementBucket lowers the named bucket by one. The guard keeps the counter
// from going negative; false means no row matched or the bucket was already 0.
func (r *Repository) DecrementBucket(ctx context.Context, userID uuid.UUID, cntryCd, bucket string) (bool, error) {
	if err := checkBucket(bucket); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE country_counts SET %s = %s - 1, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND cntry_cd = ? AND %s > 0`, bucket, bucket, bucket),
		userID, cntryCd,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ShiftBucket moves one unit between buckets on the same row in a single
// statement, so a wishlist toggle can never observe a half-applied move.
func (r *Repository) ShiftBucket(ctx context.Context, userID uuid.UUID, cntryCd, from, to string) (bool, error) {
	if err := checkBucket(from); err != nil {
		return false, err
	}
	if err := checkBucket(to); err != nil {
		return false, err
	}
	if from == to {
		return false, fmt.Errorf("cannot shift bucket %q onto itself", from)
	}

	result := r.db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE country_counts SET %s = %s - 1, %s = %s + 1, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND cntry_cd = ? AND %s > 0`, from, from, to, to, from),
		userID, cntryCd,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func checkBucket(bucket string) error {
	if _, ok := validBuckets[bucket]; !ok {
		return fmt.Errorf("unknown counter bucket %q", bucket)
	}
	return nil
}
