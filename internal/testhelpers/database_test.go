package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantry/backend/internal/models"
)

func TestNewSQLiteDBIsolated(t *testing.T) {
	first := NewSQLiteDB(t)
	second := NewSQLiteDB(t)

	user := CreateUser(t, first, "test@example.com")
	assert.NotZero(t, user.ID)

	var count int64
	require.NoError(t, second.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFixtures(t *testing.T) {
	db := NewSQLiteDB(t)
	user := CreateUser(t, db, "test@example.com")
	recipe := CreateRecipe(t, db, user.ID, "Soup")
	tag := CreateTag(t, db, user.ID, "Dinner")
	ing := CreateIngredient(t, db, user.ID, "Salt")
	AddTags(t, db, recipe, tag)
	AddIngredients(t, db, recipe, ing)

	var loaded models.Recipe
	require.NoError(t, db.Preload("Tags").Preload("Ingredients").First(&loaded, recipe.ID).Error)
	require.Len(t, loaded.Tags, 1)
	require.Len(t, loaded.Ingredients, 1)
	assert.Equal(t, "Dinner", loaded.Tags[0].Name)
	assert.Equal(t, "Salt", loaded.Ingredients[0].Name)
	assert.Equal(t, "5.25", loaded.Price.StringFixed(2))
}
