package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Zh-Andrew/foodgram-project-react/internal/apperr"
	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
)

// MembershipService manages the two per-user recipe sets: favorites and the
// shopping cart. Both are strict-once: a repeat add is an error, not a no-op,
// and removing an absent entry is an error too. The pre-checks only produce
// the user-facing messages; the composite unique indexes are what actually
// guard against concurrent duplicate adds.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// AddFavorite puts a recipe into the user's favorites and returns the recipe
// for the summary payload.
func (s *MembershipService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	var existing models.FavoriteRecipe
	err = s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error
	if err == nil {
		return nil, apperr.AlreadyExists("recipe is already in your favorites")
	}

	entry := models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.AlreadyExists("recipe is already in your favorites")
		}
		return nil, err
	}
	return recipe, nil
}

// RemoveFavorite deletes the favorites entry for this user and recipe.
func (s *MembershipService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.recipe(ctx, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.FavoriteRecipe{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.Validation("recipe was not in your favorites")
	}
	return nil
}

// AddToShoppingCart puts a recipe into the user's shopping cart.
func (s *MembershipService) AddToShoppingCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	var existing models.ShoppingCartEntry
	err = s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error
	if err == nil {
		return nil, apperr.AlreadyExists("recipe is already in your shopping cart")
	}

	entry := models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.AlreadyExists("recipe is already in your shopping cart")
		}
		return nil, err
	}
	return recipe, nil
}

// RemoveFromShoppingCart deletes the shopping cart entry for this user and
// recipe.
func (s *MembershipService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.recipe(ctx, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCartEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.Validation("recipe was not in your shopping cart")
	}
	return nil
}

func (s *MembershipService) recipe(ctx context.Context, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, err
	}
	return &recipe, nil
}
