package database

import (
	"gorm.io/gorm"

	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
)

// AutoMigrate creates or updates the schema for every model. Join tables and
// composite unique indexes come from the model struct tags.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.FavoriteRecipe{},
		&models.ShoppingCartEntry{},
	)
}
