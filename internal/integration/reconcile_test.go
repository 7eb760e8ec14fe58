package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/testhelpers"
)

const writers = 8

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestConcurrentRecipeWritesShareAttributes(t *testing.T) {
	db := testhelpers.NewPostgresDB(t)
	logger := zap.NewNop()
	recipes := service.NewRecipeService(db, service.NewReconciler(logger), nil, logger)
	owner := testhelpers.CreateUser(t, db, "cook@example.com")
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := recipes.CreateRecipe(ctx, owner.ID, service.RecipeInput{
				Title:       strPtr(fmt.Sprintf("Recipe %d", i)),
				TimeMinutes: intPtr(10),
				Price:       strPtr("3.50"),
				Tags:        []string{"Shared", fmt.Sprintf("Own %d", i)},
				Ingredients: []string{"Salt", "Pepper"},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var shared []models.Tag
	require.NoError(t, db.Where("user_id = ? AND name = ?", owner.ID, "Shared").Find(&shared).Error)
	require.Len(t, shared, 1)

	var tagCount, ingredientCount, links int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&ingredientCount).Error)
	require.NoError(t, db.Table("recipe_tags").Where("tag_id = ?", shared[0].ID).Count(&links).Error)
	assert.Equal(t, int64(writers+1), tagCount)
	assert.Equal(t, int64(2), ingredientCount)
	assert.Equal(t, int64(writers), links)
}

func TestConcurrentCreateAttribute(t *testing.T) {
	db := testhelpers.NewPostgresDB(t)
	logger := zap.NewNop()
	tags := service.NewAttributeService(db, models.TagKind, service.NewReconciler(logger), logger)
	owner := testhelpers.CreateUser(t, db, "cook@example.com")
	other := testhelpers.CreateUser(t, db, "other@example.com")
	ctx := context.Background()

	type result struct {
		id      uint
		created bool
		err     error
	}
	results := make(chan result, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			attr, created, err := tags.CreateAttribute(ctx, owner.ID, "Vegan")
			if err != nil {
				results <- result{err: err}
				return
			}
			results <- result{id: attr.ID, created: created}
		}()
	}
	wg.Wait()
	close(results)

	var ids = map[uint]struct{}{}
	createdCount := 0
	for r := range results {
		require.NoError(t, r.err)
		ids[r.id] = struct{}{}
		if r.created {
			createdCount++
		}
	}
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, createdCount)

	theirs, created, err := tags.CreateAttribute(ctx, other.ID, "Vegan")
	require.NoError(t, err)
	assert.True(t, created)
	_, taken := ids[theirs.ID]
	assert.False(t, taken)
}

func TestUpdateRecipeOnPostgres(t *testing.T) {
	db := testhelpers.NewPostgresDB(t)
	logger := zap.NewNop()
	recipes := service.NewRecipeService(db, service.NewReconciler(logger), nil, logger)
	owner := testhelpers.CreateUser(t, db, "cook@example.com")
	other := testhelpers.CreateUser(t, db, "other@example.com")
	ctx := context.Background()

	recipe, err := recipes.CreateRecipe(ctx, owner.ID, service.RecipeInput{
		Title:       strPtr("Curry"),
		TimeMinutes: intPtr(20),
		Price:       strPtr("7.25"),
		Tags:        []string{"Dinner"},
	})
	require.NoError(t, err)

	updated, err := recipes.UpdateRecipe(ctx, owner.ID, recipe.ID, service.RecipeInput{
		Tags: []string{"Lunch", "Spicy"},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "7.25", updated.Price.StringFixed(2))
	assert.Len(t, updated.Tags, 2)

	_, err = recipes.UpdateRecipe(ctx, other.ID, recipe.ID, service.RecipeInput{Title: strPtr("Mine now")}, true)
	assert.ErrorIs(t, err, service.ErrNotFound)

	list, err := recipes.ListRecipes(ctx, owner.ID, service.RecipeFilter{TagIDs: []uint{updated.Tags[0].ID}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, recipe.ID, list[0].ID)
}
