package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/internal/database"
	"github.com/pageza/pantry/backend/internal/middleware"
	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/service"
)

// Services bundles what the HTTP layer needs
type Services struct {
	Auth        service.IAuthService
	Recipes     service.IRecipeService
	Tags        service.IAttributeService
	Ingredients service.IAttributeService
}

// NewServices builds the gorm-backed services over one connection pool
func NewServices(db *gorm.DB, authService service.IAuthService, images service.ImageStore, logger *zap.Logger) Services {
	reconciler := service.NewReconciler(logger)
	return Services{
		Auth:        authService,
		Recipes:     service.NewRecipeService(db, reconciler, images, logger),
		Tags:        service.NewAttributeService(db, models.TagKind, reconciler, logger),
		Ingredients: service.NewAttributeService(db, models.IngredientKind, reconciler, logger),
	}
}

// HealthHandler reports whether the database answers
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// RegisterRoutes registers all API routes. writeLimiter may be nil, in which
// case recipe writes are not rate limited.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, services Services, writeLimiter *middleware.RateLimiter) {
	health := NewHealthHandler(db)
	router.GET("/health", health.HealthCheck)
	router.GET("/api/health", health.HealthCheck)

	userHandler := NewUserHandler(services.Auth)
	recipeHandler := NewRecipeHandlerWithRateLimit(services.Recipes, services.Auth, writeLimiter)
	tagHandler := NewAttributeHandler(services.Tags, services.Auth)
	ingredientHandler := NewAttributeHandler(services.Ingredients, services.Auth)

	v1 := router.Group("/api/v1")
	userHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	tagHandler.RegisterRoutes(v1)
	ingredientHandler.RegisterRoutes(v1)
}
