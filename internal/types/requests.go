package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest represents the request body for creating an account
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=5"`
	Name     string `json:"name" binding:"required,max=255"`
}

// TokenRequest represents the request body for issuing a token
type TokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest represents the request body for updating the caller's
// own account. Email is accepted but never changed.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Password *string `json:"password" binding:"omitempty,min=5"`
}

// AttributeRef references a tag or ingredient by name inside a recipe payload
type AttributeRef struct {
	Name string `json:"name"`
}

// AttributeRequest represents the request body for creating or renaming a
// tag or ingredient
type AttributeRequest struct {
	Name string `json:"name" binding:"required"`
}

// RecipeRequest represents the request body for creating or updating a
// recipe. Omitted tags or ingredients leave the association untouched on
// update; an empty list clears it. Price may be a JSON number or a string.
type RecipeRequest struct {
	Title       *string         `json:"title"`
	TimeMinutes *int            `json:"time_minutes"`
	Price       json.RawMessage `json:"price"`
	Description *string         `json:"description"`
	Link        *string         `json:"link"`
	Tags        []AttributeRef  `json:"tags"`
	Ingredients []AttributeRef  `json:"ingredients"`
}

// PriceText returns the price as written by the client, or nil when absent.
func (r *RecipeRequest) PriceText() *string {
	if len(r.Price) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(r.Price, &s); err == nil {
		return &s
	}
	raw := string(r.Price)
	return &raw
}

// TagNames flattens Tags, keeping nil when the field was omitted
func (r *RecipeRequest) TagNames() []string {
	return refNames(r.Tags)
}

// IngredientNames flattens Ingredients, keeping nil when the field was omitted
func (r *RecipeRequest) IngredientNames() []string {
	return refNames(r.Ingredients)
}

func refNames(refs []AttributeRef) []string {
	if refs == nil {
		return nil
	}
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	return names
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AttributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RecipeSummary is the list representation of a recipe
type RecipeSummary struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       string              `json:"price"`
	Link        string              `json:"link"`
	Tags        []AttributeResponse `json:"tags"`
	Ingredients []AttributeResponse `json:"ingredients"`
}

// RecipeDetail is the single-recipe representation
type RecipeDetail struct {
	RecipeSummary
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

// RecipeImageResponse is returned after an image upload
type RecipeImageResponse struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}
