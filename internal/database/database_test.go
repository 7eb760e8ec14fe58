package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/pantry/backend/config"
	"github.com/pageza/pantry/backend/internal/models"
)

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "pantry.db"),
	}

	db, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	assert.NoError(t, HealthCheck(context.Background(), db))

	for _, table := range []string{"users", "tags", "ingredients", "recipes", "recipe_tags", "recipe_ingredients"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Tag{}, "idx_tags_user_name"))
	assert.True(t, db.Migrator().HasIndex(&models.Ingredient{}, "idx_ingredients_user_name"))

	// migrating twice is a no-op
	assert.NoError(t, Migrate(db))
}

func TestOwnerForeignKeys(t *testing.T) {
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "pantry.db"),
	}
	db, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	stranger := uuid.New()
	assert.Error(t, db.Create(&models.Tag{UserID: stranger, Name: "Vegan"}).Error)
	assert.Error(t, db.Create(&models.Ingredient{UserID: stranger, Name: "Salt"}).Error)
	assert.Error(t, db.Omit("Tags", "Ingredients").Create(&models.Recipe{
		UserID: stranger, Title: "Soup", Price: decimal.NewFromInt(1),
	}).Error)

	user := &models.User{Email: "cook@example.com", Name: "Cook", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	tag := &models.Tag{UserID: user.ID, Name: "Vegan"}
	require.NoError(t, db.Create(tag).Error)
	recipe := &models.Recipe{UserID: user.ID, Title: "Soup", Price: decimal.NewFromInt(1)}
	require.NoError(t, db.Create(recipe).Error)
	require.NoError(t, db.Model(recipe).Association("Tags").Append(tag))

	require.NoError(t, db.Unscoped().Delete(user).Error)
	for _, table := range []string{"recipes", "tags", "recipe_tags"} {
		var count int64
		require.NoError(t, db.Table(table).Count(&count).Error)
		assert.Zero(t, count, table)
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "pantry.db?_foreign_keys=1", SQLiteDSN("pantry.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=1", SQLiteDSN("file:x?mode=memory"))
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "oracle"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}
