package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/types"
)

// IAuthService defines the interface for account and token operations
type IAuthService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	IssueToken(user *models.User) (string, time.Time, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	AuthenticateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, update UserUpdate) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, owner uuid.UUID, in RecipeInput) (*models.Recipe, error)
	GetRecipe(ctx context.Context, owner uuid.UUID, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context, owner uuid.UUID, filter RecipeFilter) ([]models.Recipe, error)
	UpdateRecipe(ctx context.Context, owner uuid.UUID, id uint, in RecipeInput, partial bool) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, owner uuid.UUID, id uint) error
	SetImage(ctx context.Context, owner uuid.UUID, id uint, data []byte) (*models.Recipe, error)
	ImageURL(recipe *models.Recipe) string
}

// IAttributeService defines the interface for tag or ingredient operations
type IAttributeService interface {
	Kind() models.AttributeKind
	ListAttributes(ctx context.Context, owner uuid.UUID, assignedOnly bool) ([]models.Attribute, error)
	GetAttribute(ctx context.Context, owner uuid.UUID, id uint) (*models.Attribute, error)
	CreateAttribute(ctx context.Context, owner uuid.UUID, name string) (*models.Attribute, bool, error)
	RenameAttribute(ctx context.Context, owner uuid.UUID, id uint, name string) (*models.Attribute, error)
	DeleteAttribute(ctx context.Context, owner uuid.UUID, id uint) error
}

// ImageStore persists uploaded recipe images under a key
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
