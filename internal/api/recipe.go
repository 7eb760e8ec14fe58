package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry/backend/internal/middleware"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/types"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	validator     middleware.TokenValidator
	writeLimiter  *middleware.RateLimiter
}

func NewRecipeHandler(recipeService service.IRecipeService, validator middleware.TokenValidator) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

// NewRecipeHandlerWithRateLimit creates a recipe handler whose write routes
// are counted by limiter
func NewRecipeHandlerWithRateLimit(recipeService service.IRecipeService, validator middleware.TokenValidator, limiter *middleware.RateLimiter) *RecipeHandler {
	h := NewRecipeHandler(recipeService, validator)
	h.writeLimiter = limiter
	return h
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(h.validator))

	write := []gin.HandlerFunc{}
	if h.writeLimiter != nil {
		write = append(write, h.writeLimiter.RateLimitMiddleware())
	}
	with := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), handler)
	}

	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", with(h.CreateRecipe)...)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", with(h.UpdateRecipe)...)
		recipes.PATCH("/:id", with(h.PatchRecipe)...)
		recipes.DELETE("/:id", with(h.DeleteRecipe)...)
		recipes.POST("/:id/upload-image", with(h.UploadImage)...)
	}
}

// ListRecipes lists the caller's recipes, optionally narrowed by
// comma separated tag and ingredient ids
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	tagIDs, err := queryIDs(c, "tags")
	if err != nil {
		_ = c.Error(err)
		return
	}
	ingredientIDs, err := queryIDs(c, "ingredients")
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), userID, service.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]types.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		out = append(out, recipeSummary(&recipes[i]))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), userID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipeDetail(h.recipeService, recipe)})
}

// CreateRecipe creates a recipe owned by the caller. Any owner sent in the
// payload is ignored.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, recipeInput(&req))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": recipeDetail(h.recipeService, recipe)})
}

// UpdateRecipe replaces the required recipe fields
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	h.update(c, false)
}

// PatchRecipe updates only the fields present in the payload
func (h *RecipeHandler) PatchRecipe(c *gin.Context) {
	h.update(c, true)
}

func (h *RecipeHandler) update(c *gin.Context, partial bool) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req types.RecipeRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, id, recipeInput(&req), partial)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipeDetail(h.recipeService, recipe)})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage stores the multipart "image" file as the recipe picture
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		_ = c.Error(service.ValidationError{Field: "image", Message: "no file was submitted"})
		return
	}
	f, err := file.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageSize+1))
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipeService.SetImage(c.Request.Context(), userID, id, data)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.RecipeImageResponse{
		ID:    recipe.ID,
		Image: h.recipeService.ImageURL(recipe),
	})
}
