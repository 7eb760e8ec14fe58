package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/service"
)

type seedRecipe struct {
	title       string
	minutes     int
	price       string
	tags        []string
	ingredients []string
}

type seedUser struct {
	name    string
	email   string
	recipes []seedRecipe
}

var seedUsers = []seedUser{
	{
		name:  "John Doe",
		email: "john.doe@example.com",
		recipes: []seedRecipe{
			{"Thai Prawn Curry", 30, "12.50", []string{"Thai", "Dinner"}, []string{"Prawns", "Coconut Milk", "Ginger"}},
			{"Porridge", 10, "1.20", []string{"Breakfast", "Vegan"}, []string{"Oats", "Oat Milk"}},
			{"Ginger Stir Fry", 15, "6.00", []string{"Dinner", "Quick"}, []string{"Ginger", "Broccoli", "Soy Sauce"}},
		},
	},
	{
		name:  "Jane Smith",
		email: "jane.smith@example.com",
		recipes: []seedRecipe{
			{"Pancakes", 20, "2.75", []string{"Breakfast"}, []string{"Flour", "Eggs", "Milk"}},
			{"Greek Salad", 10, "4.40", []string{"Lunch", "Vegetarian"}, []string{"Feta", "Cucumber", "Olives"}},
		},
	},
}

// NewSeedCommand creates the seed command, which fills a development
// database with demo users and recipes.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo users with recipes, tags and ingredients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := rootOpts.openDB()
			if err != nil {
				return err
			}
			if cfg.Env.IsProduction() {
				return errors.New("refusing to seed a production database")
			}

			logger := rootOpts.Logger
			auth := service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, logger)
			recipes := service.NewRecipeService(db, service.NewReconciler(logger), nil, logger)
			return seed(cmd.Context(), db, auth, recipes, password, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&password, "password", "testpassword123", "password given to every demo user")

	return cmd
}

func seed(ctx context.Context, db *gorm.DB, auth *service.AuthService, recipes *service.RecipeService, password string, out io.Writer) error {
	for _, su := range seedUsers {
		var existing int64
		if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", su.email).Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check user %s: %w", su.email, err)
		}
		if existing > 0 {
			fmt.Fprintf(out, "User %s already exists, skipping...\n", su.email)
			continue
		}

		user, err := auth.Register(ctx, su.email, password, su.name)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", su.email, err)
		}
		for _, sr := range su.recipes {
			title, minutes, price := sr.title, sr.minutes, sr.price
			_, err := recipes.CreateRecipe(ctx, user.ID, service.RecipeInput{
				Title:       &title,
				TimeMinutes: &minutes,
				Price:       &price,
				Tags:        sr.tags,
				Ingredients: sr.ingredients,
			})
			if err != nil {
				return fmt.Errorf("failed to create recipe %q: %w", sr.title, err)
			}
		}
		fmt.Fprintf(out, "Created %s with %d recipes\n", su.email, len(su.recipes))
	}
	return nil
}
