package models

import (
	"time"

	"github.com/google/uuid"
)

// Attribute is the table-neutral row shape shared by tags and ingredients.
// Queries pick the table through an AttributeKind.
type Attribute struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null" json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
}

// AttributeKind names the tables backing one attribute type and its
// association with recipes.
type AttributeKind struct {
	Name       string
	Table      string
	JoinTable  string
	JoinColumn string
}

var (
	TagKind = AttributeKind{
		Name:       "tag",
		Table:      "tags",
		JoinTable:  "recipe_tags",
		JoinColumn: "tag_id",
	}
	IngredientKind = AttributeKind{
		Name:       "ingredient",
		Table:      "ingredients",
		JoinTable:  "recipe_ingredients",
		JoinColumn: "ingredient_id",
	}
)
