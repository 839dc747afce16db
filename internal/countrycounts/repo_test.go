package countrycounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS country_counts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  cntry_cd TEXT NOT NULL,
  restr INTEGER NOT NULL DEFAULT 0,
  hm INTEGER NOT NULL DEFAULT 0,
  other INTEGER NOT NULL DEFAULT 0,
  wishlist INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, cntry_cd)
);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func TestSeedAndIncrement(t *testing.T) {
	db := setupCountsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()
	ctx := context.Background()

	applied, err := repo.IncrementBucket(ctx, userID, "JP", "restr")
	require.NoError(t, err)
	assert.False(t, applied, "no row yet, increment should miss")

	require.NoError(t, repo.Seed(ctx, userID, "JP", "restr"))

	row, err := repo.FindByUserAndCountry(ctx, userID, "JP")
	require.NoError(t, err)
	assert.Equal(t, 1, row.Restr)

	applied, err = repo.IncrementBucket(ctx, userID, "JP", "restr")
	require.NoError(t, err)
	assert.True(t, applied)

	row, err = repo.FindByUserAndCountry(ctx, userID, "JP")
	require.NoError(t, err)
	assert.Equal(t, 2, row.Restr)
}

func TestSeedDuplicatePairRejected(t *testing.T) {
	db := setupCountsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, userID, "JP", "restr"))
	assert.Error(t, repo.Seed(ctx, userID, "JP", "wishlist"))
}

func TestDecrementGuardsAtZero(t *testing.T) {
	db := setupCountsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, userID, "FR", "hm"))

	applied, err := repo.DecrementBucket(ctx, userID, "FR", "hm")
	require.NoError(t, err)
	assert.True(t, applied)

	// Bucket now zero; the guard must refuse rather than go negative.
	applied, err = repo.DecrementBucket(ctx, userID, "FR", "hm")
	require.NoError(t, err)
	assert.False(t, applied)

	row, err := repo.FindByUserAndCountry(ctx, userID, "FR")
	require.NoError(t, err)
	assert.Zero(t, row.Hm)
}

func TestDecrementMissingRow(t *testing.T) {
	db := setupCountsTestDB(t)
	repo := NewRepository(db)

	applied, err := repo.DecrementBucket(context.Background(), uuid.New(), "XX", "other")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestShiftBucketMovesOneUnit(t *testing.T) {
	db := setupCountsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, userID, "PT", "wishlist"))

	applied, err := repo.ShiftBucket(ctx, userID, "PT", "wishlist", "restr")
	require.NoError(t, err)
	assert.True(t, applied)

	row, err := repo.FindByUserAndCountry(ctx, userID, "PT")
	require.NoError(t, err)
	assert.Zero(t, row.Wishlist)
	assert.Equal(t, 1, row.Restr)
	assert.Equal(t, 1, row.Total())
}

func TestShiftBucketEmptySourceRefused(t *testing.T) {
	db := setupCountsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, userID, "PT", "wishlist"))

	applied, err := repo.ShiftBucket(ctx, userID, "PT", "restr", "wishlist")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestShiftBucketSameBucketRejected(t *testing.T) {
	db := setupCountsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.ShiftBucket(context.Background(), uuid.New(), "PT", "restr", "restr")
	assert.Error(t, err)
}

func TestBucketNameWhitelisted(t *testing.T) {
	db := setupCountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.IncrementBucket(ctx, uuid.New(), "JP", "restr; DROP TABLE country_counts")
	assert.Error(t, err)

	assert.Error(t, repo.Seed(ctx, uuid.New(), "JP", "created_at"))
}

func TestListByUserOrdersByCountry(t *testing.T) {
	db := setupCountsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()
	ctx := context.Background()

	for _, cd := range []string{"JP", "AR", "FR"} {
		require.NoError(t, repo.Seed(ctx, userID, cd, "other"))
	}
	require.NoError(t, repo.Seed(ctx, uuid.New(), "US", "other"))

	rows, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"AR", "FR", "JP"}, []string{rows[0].CntryCd, rows[1].CntryCd, rows[2].CntryCd})
}
