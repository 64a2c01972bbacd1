package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/database/testutil"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
)

func TestBeforeCreateAssignsUUID(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	item := models.WishlistItem{Title: "Fushimi Inari at dawn", Category: "sight"}
	require.NoError(t, db.Create(&item).Error)
	require.NotEmpty(t, item.ID)
	require.Equal(t, item.ID, item.RowKey())
}

func TestBeforeCreateKeepsExplicitID(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	setting := models.SiteSetting{
		BaseModel: models.BaseModel{ID: "site_title"},
		Key:       "site_title",
		Value:     datatypes.JSONMap{"text": "Japan 2026"},
	}
	require.NoError(t, db.Create(&setting).Error)

	var loaded models.SiteSetting
	require.NoError(t, db.Take(&loaded, "key = ?", "site_title").Error)
	require.Equal(t, "site_title", loaded.ID)
	require.Equal(t, "Japan 2026", loaded.Value["text"])
}

func TestUserPublicHidesPIN(t *testing.T) {
	user := models.User{
		BaseModel: models.BaseModel{ID: "u-1"},
		Name:      "Yuki",
		PINHash:   "$2a$10$abcdefghijklmnopqrstuv",
	}

	view := user.Public()
	require.Equal(t, true, view["has_pin"])
	require.NotContains(t, view, "pin_hash")
}

func TestExpenseSplitRoundTrip(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	expense := models.Expense{
		Title:  "Ryokan deposit",
		Amount: 42000,
		Date:   "2026-04-03",
		Split:  datatypes.JSON([]byte(`["u-1","u-2"]`)),
	}
	require.NoError(t, db.Create(&expense).Error)

	var loaded models.Expense
	require.NoError(t, db.Take(&loaded, "id = ?", expense.ID).Error)
	require.JSONEq(t, `["u-1","u-2"]`, string(loaded.Split))
}
