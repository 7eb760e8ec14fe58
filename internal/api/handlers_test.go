package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/pantry/backend/internal/mocks"
	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/types"
)

func TestHealthCheck(t *testing.T) {
	env := SetupTestEnv(t)

	w := PerformRequestWithToken(env.Router, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])

	sqlDB, err := env.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = PerformRequestWithToken(env.Router, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// mockAuth accepts the single token "token" for userID
func mockAuth(userID uuid.UUID) *mocks.MockAuthService {
	auth := new(mocks.MockAuthService)
	auth.On("AuthenticateToken", mock.Anything, "token").Return(&types.TokenClaims{UserID: userID}, nil)
	auth.On("AuthenticateToken", mock.Anything, mock.Anything).Return(nil, service.ErrUnauthenticated)
	return auth
}

func TestListRecipesParsesFilters(t *testing.T) {
	userID := uuid.New()
	recipes := new(mocks.MockRecipeService)
	recipes.On("ListRecipes", mock.Anything, userID, service.RecipeFilter{
		TagIDs:        []uint{3, 1},
		IngredientIDs: []uint{7},
	}).Return([]models.Recipe{{ID: 9, Title: "Filtered"}}, nil)

	router := newTestEngine(zap.NewNop())
	NewRecipeHandler(recipes, mockAuth(userID)).RegisterRoutes(router.Group("/api/v1"))

	w := PerformRequestWithToken(router, http.MethodGet, "/api/v1/recipes?tags=3,1&ingredients=7", nil, "token")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []uint{9}, ids(decodeBody(t, w)["recipes"]))
	recipes.AssertExpectations(t)
}

func TestRecipeHandlerPassesInput(t *testing.T) {
	userID := uuid.New()
	recipes := new(mocks.MockRecipeService)
	recipes.On("UpdateRecipe", mock.Anything, userID, uint(4), mock.MatchedBy(func(in service.RecipeInput) bool {
		return in.Title == nil && in.Price != nil && *in.Price == "2.50" &&
			in.Tags != nil && len(in.Tags) == 0 && in.Ingredients == nil
	}), true).Return(&models.Recipe{ID: 4, Title: "Kept"}, nil)
	recipes.On("ImageURL", mock.Anything).Return("")

	router := newTestEngine(zap.NewNop())
	NewRecipeHandler(recipes, mockAuth(userID)).RegisterRoutes(router.Group("/api/v1"))

	w := PerformRequestWithToken(router, http.MethodPatch, "/api/v1/recipes/4", `{"price": "2.50", "tags": []}`, "token")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	recipes.AssertExpectations(t)
}

func TestUnexpectedServiceErrorIsHidden(t *testing.T) {
	userID := uuid.New()
	recipes := new(mocks.MockRecipeService)
	recipes.On("GetRecipe", mock.Anything, userID, uint(1)).Return(nil, errors.New("disk on fire"))

	router := newTestEngine(zap.NewNop())
	NewRecipeHandler(recipes, mockAuth(userID)).RegisterRoutes(router.Group("/api/v1"))

	w := PerformRequestWithToken(router, http.MethodGet, "/api/v1/recipes/1", nil, "token")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")

	w = PerformRequestWithToken(router, http.MethodGet, "/api/v1/recipes/1", nil, "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAttributeStatus(t *testing.T) {
	userID := uuid.New()
	tags := mocks.NewMockAttributeService(models.TagKind)
	tags.On("CreateAttribute", mock.Anything, userID, "New").Return(&models.Attribute{ID: 1, Name: "New"}, true, nil)
	tags.On("CreateAttribute", mock.Anything, userID, "Old").Return(&models.Attribute{ID: 2, Name: "Old"}, false, nil)

	router := newTestEngine(zap.NewNop())
	NewAttributeHandler(tags, mockAuth(userID)).RegisterRoutes(router.Group("/api/v1"))

	w := PerformRequestWithToken(router, http.MethodPost, "/api/v1/tags", map[string]string{"name": "New"}, "token")
	assert.Equal(t, http.StatusCreated, w.Code)
	w = PerformRequestWithToken(router, http.MethodPost, "/api/v1/tags", map[string]string{"name": "Old"}, "token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Old", decodeBody(t, w)["tag"].(map[string]interface{})["name"])
	tags.AssertExpectations(t)
}
