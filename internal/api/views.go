package api

import (
	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/types"
)

func userView(u *models.User) types.UserResponse {
	return types.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func attributeView(a models.Attribute) types.AttributeResponse {
	return types.AttributeResponse{ID: a.ID, Name: a.Name}
}

func attributeViews(attrs []models.Attribute) []types.AttributeResponse {
	out := make([]types.AttributeResponse, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, attributeView(a))
	}
	return out
}

func recipeSummary(r *models.Recipe) types.RecipeSummary {
	tags := make([]types.AttributeResponse, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, types.AttributeResponse{ID: t.ID, Name: t.Name})
	}
	ingredients := make([]types.AttributeResponse, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ingredients = append(ingredients, types.AttributeResponse{ID: i.ID, Name: i.Name})
	}
	return types.RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}
}

func recipeDetail(recipes service.IRecipeService, r *models.Recipe) types.RecipeDetail {
	detail := types.RecipeDetail{
		RecipeSummary: recipeSummary(r),
		Description:   r.Description,
	}
	if url := recipes.ImageURL(r); url != "" {
		detail.Image = &url
	}
	return detail
}

func recipeInput(req *types.RecipeRequest) service.RecipeInput {
	return service.RecipeInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.PriceText(),
		Description: req.Description,
		Link:        req.Link,
		Tags:        req.TagNames(),
		Ingredients: req.IngredientNames(),
	}
}
