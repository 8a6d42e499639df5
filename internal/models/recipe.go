package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Tag colors are a fixed palette; BeforeSave rejects anything else.
const (
	TagColorOrange     = "#FFA500"
	TagColorGreen      = "#008000"
	TagColorDarkViolet = "#9400D3"
)

// TagColors lists the allowed tag colors.
var TagColors = []string{TagColorOrange, TagColorGreen, TagColorDarkViolet}

// Tag is an admin-seeded label recipes are filtered by.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:40;not null" json:"name"`
	Color string `gorm:"size:40;not null" json:"color"`
	Slug  string `gorm:"size:40;uniqueIndex;not null" json:"slug"`
}

// BeforeSave keeps tag colors inside the palette.
func (t *Tag) BeforeSave(*gorm.DB) error {
	for _, allowed := range TagColors {
		if t.Color == allowed {
			return nil
		}
	}
	return fmt.Errorf("tag color %q is not in the allowed palette", t.Color)
}

// Ingredient is admin-managed reference data. The same name may appear with
// several measurement units (e.g. "milk" in ml and in g).
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:150;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:50;not null" json:"measurement_unit"`
}

// Recipe owns its tag set and ingredient lines; the three are written as one
// transactional unit.
type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Image       string    `gorm:"size:500" json:"image"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	CreatedAt   time.Time `json:"created_at"`

	Author      *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

// RecipeIngredient is the (recipe, ingredient) join carrying the amount.
type RecipeIngredient struct {
	ID           uint `gorm:"primarykey" json:"id"`
	RecipeID     uint `gorm:"not null;index;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int  `gorm:"not null" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}

// FavoriteRecipe marks a recipe as favorited by a user.
type FavoriteRecipe struct {
	ID       uint `gorm:"primarykey" json:"id"`
	UserID   uint `gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"recipe_id"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

// ShoppingCartEntry marks a recipe as queued for the user's shopping list.
type ShoppingCartEntry struct {
	ID       uint `gorm:"primarykey" json:"id"`
	UserID   uint `gorm:"not null;index;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe" json:"recipe_id"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}
