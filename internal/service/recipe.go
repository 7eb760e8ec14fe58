package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/pantry/backend/internal/models"
)

var maxPrice = decimal.NewFromInt(1000)

// RecipeInput carries the writable recipe fields of a create or update.
// Nil scalar fields are not provided. A nil Tags or Ingredients slice leaves
// that association untouched; an empty one clears it.
type RecipeInput struct {
	Title       *string
	TimeMinutes *int
	Price       *string
	Description *string
	Link        *string
	Tags        []string
	Ingredients []string
}

// RecipeFilter narrows a recipe listing. A recipe must match at least one id
// of every non-empty set.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeService handles recipe operations
type RecipeService struct {
	db         *gorm.DB
	reconciler *Reconciler
	images     ImageStore
	logger     *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, reconciler *Reconciler, images ImageStore, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		db:         db,
		reconciler: reconciler,
		images:     images,
		logger:     logger.Named("recipe"),
	}
}

// CreateRecipe stores a new recipe for owner and resolves its tags and
// ingredients by name.
func (s *RecipeService) CreateRecipe(ctx context.Context, owner uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	if owner == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	cols, err := in.columns(false)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{UserID: owner}
	assignColumns(&recipe, cols)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return s.reconcileAll(tx, &recipe, in)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipe created",
		zap.Uint("id", recipe.ID),
		zap.String("owner", owner.String()),
	)
	return s.GetRecipe(ctx, owner, recipe.ID)
}

// GetRecipe retrieves one of owner's recipes
func (s *RecipeService) GetRecipe(ctx context.Context, owner uuid.UUID, id uint) (*models.Recipe, error) {
	if owner == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", owner).
		First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// ListRecipes lists owner's recipes, newest first. Association filters are
// expressed as id subqueries so a recipe matching several ids is returned once.
func (s *RecipeService) ListRecipes(ctx context.Context, owner uuid.UUID, filter RecipeFilter) ([]models.Recipe, error) {
	if owner == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	q := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", owner)
	q = withAssociation(q, models.TagKind, filter.TagIDs)
	q = withAssociation(q, models.IngredientKind, filter.IngredientIDs)

	var recipes []models.Recipe
	if err := q.Order("id DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// withAssociation keeps recipes linked to any of ids. The subquery shares
// q's session and context.
func withAssociation(q *gorm.DB, kind models.AttributeKind, ids []uint) *gorm.DB {
	if len(ids) == 0 {
		return q
	}
	sub := q.Session(&gorm.Session{NewDB: true}).Table(kind.JoinTable).
		Select("recipe_id").
		Where(kind.JoinColumn+" IN ?", ids)
	return q.Where("id IN (?)", sub)
}

// UpdateRecipe applies in to one of owner's recipes. A full update requires
// title, time_minutes and price; a partial one takes any subset.
func (s *RecipeService) UpdateRecipe(ctx context.Context, owner uuid.UUID, id uint, in RecipeInput, partial bool) (*models.Recipe, error) {
	if owner == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	cols, err := in.columns(partial)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := lockOwnedRecipe(tx, owner, id)
		if err != nil {
			return err
		}
		if len(cols) > 0 {
			if err := tx.Model(recipe).Updates(cols).Error; err != nil {
				return fmt.Errorf("failed to update recipe: %w", err)
			}
		}
		return s.reconcileAll(tx, recipe, in)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, owner, id)
}

// DeleteRecipe removes one of owner's recipes with its associations and
// releases its image.
func (s *RecipeService) DeleteRecipe(ctx context.Context, owner uuid.UUID, id uint) error {
	if owner == uuid.Nil {
		return ErrUnauthenticated
	}
	var image string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := lockOwnedRecipe(tx, owner, id)
		if err != nil {
			return err
		}
		for _, kind := range []models.AttributeKind{models.TagKind, models.IngredientKind} {
			if err := tx.Exec("DELETE FROM "+kind.JoinTable+" WHERE recipe_id = ?", recipe.ID).Error; err != nil {
				return fmt.Errorf("failed to detach %ss: %w", kind.Name, err)
			}
		}
		if err := tx.Delete(recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		image = recipe.Image
		return nil
	})
	if err != nil {
		return err
	}

	s.releaseImage(ctx, image)
	s.logger.Info("recipe deleted", zap.Uint("id", id), zap.String("owner", owner.String()))
	return nil
}

// SetImage validates data as an image, stores it and points the recipe at
// it. The previous image, if any, is released.
func (s *RecipeService) SetImage(ctx context.Context, owner uuid.UUID, id uint, data []byte) (*models.Recipe, error) {
	if owner == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if s.images == nil {
		return nil, errors.New("image storage is not configured")
	}
	if _, err := s.GetRecipe(ctx, owner, id); err != nil {
		return nil, err
	}
	info, err := DetectImage(data)
	if err != nil {
		return nil, err
	}

	key := recipeImageKey(info)
	if err := s.images.Save(ctx, key, data, info.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	var previous string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := lockOwnedRecipe(tx, owner, id)
		if err != nil {
			return err
		}
		previous = recipe.Image
		return tx.Model(recipe).Update("image", key).Error
	})
	if err != nil {
		s.releaseImage(ctx, key)
		return nil, err
	}

	s.releaseImage(ctx, previous)
	s.logger.Info("recipe image stored",
		zap.Uint("id", id),
		zap.String("key", key),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
	)
	return s.GetRecipe(ctx, owner, id)
}

// ImageURL returns the public location of the recipe image, or "" when the
// recipe has none.
func (s *RecipeService) ImageURL(recipe *models.Recipe) string {
	if recipe.Image == "" || s.images == nil {
		return ""
	}
	return s.images.URL(recipe.Image)
}

func (s *RecipeService) releaseImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Error("failed to release image", zap.String("key", key), zap.Error(err))
	}
}

func (s *RecipeService) reconcileAll(tx *gorm.DB, recipe *models.Recipe, in RecipeInput) error {
	if err := s.reconciler.Reconcile(tx, models.TagKind, recipe, in.Tags); err != nil {
		return err
	}
	return s.reconciler.Reconcile(tx, models.IngredientKind, recipe, in.Ingredients)
}

// lockOwnedRecipe loads the recipe for update. Recipes of other owners are
// reported as missing.
func lockOwnedRecipe(tx *gorm.DB, owner uuid.UUID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", owner).
		First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// columns validates the provided fields and returns them keyed by column.
func (in RecipeInput) columns(partial bool) (map[string]interface{}, error) {
	var errs ValidationErrors
	cols := make(map[string]interface{})
	missing := func(field string) {
		if !partial {
			errs = append(errs, ValidationError{Field: field, Message: "this field is required"})
		}
	}

	if in.Title == nil {
		missing("title")
	} else {
		switch title := *in.Title; {
		case strings.TrimSpace(title) == "":
			errs = append(errs, ValidationError{Field: "title", Message: "this field may not be blank"})
		case utf8.RuneCountInString(title) > 255:
			errs = append(errs, ValidationError{Field: "title", Message: "ensure this field has no more than 255 characters"})
		default:
			cols["title"] = title
		}
	}

	if in.TimeMinutes == nil {
		missing("time_minutes")
	} else if *in.TimeMinutes < 0 {
		errs = append(errs, ValidationError{Field: "time_minutes", Message: "ensure this value is greater than or equal to 0"})
	} else {
		cols["time_minutes"] = *in.TimeMinutes
	}

	if in.Price == nil {
		missing("price")
	} else if price, err := parsePrice(*in.Price); err != nil {
		errs = append(errs, *err)
	} else {
		cols["price"] = price
	}

	if in.Description != nil {
		cols["description"] = *in.Description
	}

	if in.Link != nil {
		if err := validateLink(*in.Link); err != nil {
			errs = append(errs, *err)
		} else {
			cols["link"] = *in.Link
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return cols, nil
}

func parsePrice(text string) (decimal.Decimal, *ValidationError) {
	price, err := decimal.NewFromString(strings.TrimSpace(text))
	switch {
	case err != nil:
		return decimal.Decimal{}, &ValidationError{Field: "price", Message: "a valid number is required"}
	case price.IsNegative():
		return decimal.Decimal{}, &ValidationError{Field: "price", Message: "ensure this value is greater than or equal to 0"}
	case !price.Equal(price.Round(2)):
		return decimal.Decimal{}, &ValidationError{Field: "price", Message: "ensure that there are no more than 2 decimal places"}
	case price.GreaterThanOrEqual(maxPrice):
		return decimal.Decimal{}, &ValidationError{Field: "price", Message: "ensure that there are no more than 5 digits in total"}
	}
	return price.Round(2), nil
}

func validateLink(link string) *ValidationError {
	if link == "" {
		return nil
	}
	if utf8.RuneCountInString(link) > 255 {
		return &ValidationError{Field: "link", Message: "ensure this field has no more than 255 characters"}
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: "link", Message: "enter a valid URL"}
	}
	return nil
}

func assignColumns(recipe *models.Recipe, cols map[string]interface{}) {
	for col, v := range cols {
		switch col {
		case "title":
			recipe.Title = v.(string)
		case "time_minutes":
			recipe.TimeMinutes = v.(int)
		case "price":
			recipe.Price = v.(decimal.Decimal)
		case "description":
			recipe.Description = v.(string)
		case "link":
			recipe.Link = v.(string)
		}
	}
}
