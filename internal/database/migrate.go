package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/internal/models"
)

// Models lists every persisted type in dependency order
var Models = []interface{}{
	&models.User{},
	&models.Tag{},
	&models.Ingredient{},
	&models.Recipe{},
}

// Migrate brings the schema up to date, including the recipe_tags and
// recipe_ingredients join tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
