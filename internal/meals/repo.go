package meals

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/wfjournal/wfj-backend/pkg/db/models"
	dbtypes "github.com/wfjournal/wfj-backend/pkg/db/types"
	"github.com/wfjournal/wfj-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository encapsulates meal persistence. Every query is scoped to the
// owning user so cross-user reads are impossible by construction.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a meal repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the meal row.
func (r *Repository) Create(ctx context.Context, meal *models.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

// FindByID loads a meal owned by the user.
func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Meal, error) {
	var meal models.Meal
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// FindByIDAndKind loads a meal owned by the user with a matching kind. A
// wrong kind/id pairing is indistinguishable from a missing row.
func (r *Repository) FindByIDAndKind(ctx context.Context, userID, id uuid.UUID, kind enums.MealKind) (*models.Meal, error) {
	var meal models.Meal
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND kind = ?", id, userID, kind).
		First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// Save persists the full meal row.
func (r *Repository) Save(ctx context.Context, meal *models.Meal) error {
	return r.db.WithContext(ctx).Save(meal).Error
}

// Delete removes the meal row and reports whether a row was actually deleted.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Meal{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateImgLinks overwrites only the img_links column, filtered by owner and
// kind. Image mutations stay independent of the counter coordinator.
func (r *Repository) UpdateImgLinks(ctx context.Context, userID, id uuid.UUID, kind enums.MealKind, links []string) (bool, error) {
	if links == nil {
		links = []string{}
	}
	result := r.db.WithContext(ctx).
		Model(&models.Meal{}).
		Where("id = ? AND user_id = ? AND kind = ?", id, userID, kind).
		UpdateColumn("img_links", dbtypes.StringList(links))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns meals for the user narrowed by the filter, newest date first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.Meal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Meal{}).
		Where("user_id = ?", userID)

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Wishlist != nil {
		query = query.Where("wishlist = ?", *filter.Wishlist)
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}
	if filter.MaxRating != nil {
		query = query.Where("rating <= ?", *filter.MaxRating)
	}
	if filter.MinDiff != nil {
		query = query.Where("difficulty >= ?", *filter.MinDiff)
	}
	if filter.MaxDiff != nil {
		query = query.Where("difficulty <= ?", *filter.MaxDiff)
	}
	if len(filter.CntryCds) > 0 {
		query = query.Where("cntry_cd IN ?", filter.CntryCds)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if filter.MinDate != nil {
		query = query.Where("date >= ?", *filter.MinDate)
	}
	if filter.MaxDate != nil {
		query = query.Where("date <= ?", *filter.MaxDate)
	}

	var rows []models.Meal
	if err := query.Order("date DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByUserAndCountry counts active meal rows for one (user, country) pair.
func (r *Repository) CountByUserAndCountry(ctx context.Context, userID uuid.UUID, cntryCd string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Meal{}).
		Where("user_id = ? AND cntry_cd = ?", userID, cntryCd).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
