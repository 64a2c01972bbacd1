package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/database"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/database/testutil"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
)

func TestDatabaseTableRequiresHandleAndDomain(t *testing.T) {
	_, err := NewDatabaseTable[models.WishlistItem](nil, "wishlist_items")
	require.Error(t, err)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	_, err = NewDatabaseTable[models.WishlistItem](db, "  ")
	require.Error(t, err)
}

func TestDatabaseTableFetchAllEmptyWithoutSchema(t *testing.T) {
	db, err := database.Open(database.Config{Driver: "sqlite"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	table, err := NewDatabaseTable[models.WishlistItem](db, "wishlist_items")
	require.NoError(t, err)

	rows, err := table.FetchAll(context.Background())
	require.NoError(t, err, "missing table reads as an empty domain")
	require.Empty(t, rows)
}

func TestDatabaseTableUpsertIsIdempotentByKey(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	table, err := NewDatabaseTable[models.WishlistItem](db, "wishlist_items")
	require.NoError(t, err)

	item := models.WishlistItem{
		BaseModel: models.BaseModel{ID: "w-1"},
		Title:     "Ghibli Museum",
		Category:  "sight",
	}

	stored, err := table.Upsert(context.Background(), item)
	require.NoError(t, err)
	require.False(t, stored.CreatedAt.IsZero(), "remote store stamps timestamps on write")

	item.Title = "Ghibli Museum (book ahead)"
	_, err = table.Upsert(context.Background(), item)
	require.NoError(t, err)

	rows, err := table.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1, "same key overwrites, never duplicates")
	require.Equal(t, "Ghibli Museum (book ahead)", rows[0].Title)
}

func TestDatabaseTableDelete(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	table, err := NewDatabaseTable[models.Destination](db, "destinations")
	require.NoError(t, err)

	_, err = table.Upsert(context.Background(), models.Destination{
		BaseModel: models.BaseModel{ID: "d-1"},
		Name:      "Kyoto",
	})
	require.NoError(t, err)

	require.NoError(t, table.Delete(context.Background(), "d-1"))
	require.NoError(t, table.Delete(context.Background(), "d-1"), "deleting an absent key is not an error")

	rows, err := table.FetchAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}
