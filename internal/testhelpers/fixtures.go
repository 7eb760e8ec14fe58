package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/internal/models"
)

// TestPassword is the password of every user made by CreateUser
const TestPassword = "testpass123"

// CreateUser stores an active user with TestPassword
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        email,
		Name:         "Test User",
		IsActive:     true,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateRecipe stores a bare recipe for owner
func CreateRecipe(t *testing.T, db *gorm.DB, owner uuid.UUID, title string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		UserID:      owner,
		Title:       title,
		TimeMinutes: 22,
		Price:       decimal.RequireFromString("5.25"),
	}
	if err := db.Omit("Tags", "Ingredients").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}

func CreateTag(t *testing.T, db *gorm.DB, owner uuid.UUID, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{UserID: owner, Name: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, owner uuid.UUID, name string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{UserID: owner, Name: name}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ingredient
}

// AddTags associates tags with recipe
func AddTags(t *testing.T, db *gorm.DB, recipe *models.Recipe, tags ...*models.Tag) {
	t.Helper()
	for _, tag := range tags {
		if err := db.Exec("INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)", recipe.ID, tag.ID).Error; err != nil {
			t.Fatalf("failed to add tag: %v", err)
		}
	}
}

// AddIngredients associates ingredients with recipe
func AddIngredients(t *testing.T, db *gorm.DB, recipe *models.Recipe, ingredients ...*models.Ingredient) {
	t.Helper()
	for _, ing := range ingredients {
		if err := db.Exec("INSERT INTO recipe_ingredients (recipe_id, ingredient_id) VALUES (?, ?)", recipe.ID, ing.ID).Error; err != nil {
			t.Fatalf("failed to add ingredient: %v", err)
		}
	}
}
