package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/service"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

// CreateRecipe mocks the CreateRecipe method
func (m *MockRecipeService) CreateRecipe(ctx context.Context, owner uuid.UUID, in service.RecipeInput) (*models.Recipe, error) {
	args := m.Called(ctx, owner, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeService) GetRecipe(ctx context.Context, owner uuid.UUID, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// ListRecipes mocks the ListRecipes method
func (m *MockRecipeService) ListRecipes(ctx context.Context, owner uuid.UUID, filter service.RecipeFilter) ([]models.Recipe, error) {
	args := m.Called(ctx, owner, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

// UpdateRecipe mocks the UpdateRecipe method
func (m *MockRecipeService) UpdateRecipe(ctx context.Context, owner uuid.UUID, id uint, in service.RecipeInput, partial bool) (*models.Recipe, error) {
	args := m.Called(ctx, owner, id, in, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// DeleteRecipe mocks the DeleteRecipe method
func (m *MockRecipeService) DeleteRecipe(ctx context.Context, owner uuid.UUID, id uint) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

// SetImage mocks the SetImage method
func (m *MockRecipeService) SetImage(ctx context.Context, owner uuid.UUID, id uint, data []byte) (*models.Recipe, error) {
	args := m.Called(ctx, owner, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// ImageURL mocks the ImageURL method
func (m *MockRecipeService) ImageURL(recipe *models.Recipe) string {
	args := m.Called(recipe)
	return args.String(0)
}
