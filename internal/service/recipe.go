package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Zh-Andrew/foodgram-project-react/internal/apperr"
	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
	"github.com/Zh-Andrew/foodgram-project-react/internal/pagination"
)

// IngredientLine is one (ingredient, amount) pair of a recipe write request.
type IngredientLine struct {
	ID     uint
	Amount int
}

// RecipeInput is the write shape shared by create and update. Scalar fields
// are pointers: create requires them all, update keeps the prior value for
// any that are nil. The tag and ingredient sets are always required and
// always replace the stored sets wholesale.
type RecipeInput struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	TagIDs      []uint
	Ingredients []IngredientLine
}

// RecipeFilter restricts List results. Favorited and InShoppingCart only
// apply to authenticated viewers; for anonymous viewers they are ignored.
type RecipeFilter struct {
	AuthorID       *uint
	TagSlugs       []string
	Favorited      bool
	InShoppingCart bool
}

// RecipeService owns the recipe aggregate: the recipe row plus its tag and
// ingredient-line joins, written as one transactional unit.
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
}

func NewRecipeService(db *gorm.DB, images *ImageService) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// Create validates the input, resolves the image reference, and persists the
// recipe with its joins atomically. Nothing is written if any tag or
// ingredient lookup fails.
func (s *RecipeService) Create(ctx context.Context, authorID uint, input RecipeInput) (*models.Recipe, error) {
	fields := map[string]string{}
	if input.Name == nil || *input.Name == "" {
		fields["name"] = "this field is required"
	}
	if input.Text == nil || *input.Text == "" {
		fields["text"] = "this field is required"
	}
	if input.CookingTime == nil {
		fields["cooking_time"] = "this field is required"
	}
	validateSets(input, fields)
	if len(fields) > 0 {
		return nil, apperr.ValidationFields("invalid recipe data", fields)
	}

	image := ""
	if input.Image != nil {
		resolved, err := s.images.Resolve(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		image = resolved
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        *input.Name,
		Text:        *input.Text,
		Image:       image,
		CookingTime: *input.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, input.Ingredients); err != nil {
			return err
		}

		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Append(&tags); err != nil {
			return err
		}
		return createIngredientLines(tx, recipe.ID, input.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update replaces scalar fields that were supplied and fully replaces both
// join sets. Only the author or staff may update.
func (s *RecipeService) Update(ctx context.Context, recipeID, callerID uint, input RecipeInput) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, recipe, callerID); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if input.Name != nil && *input.Name == "" {
		fields["name"] = "may not be blank"
	}
	if input.Text != nil && *input.Text == "" {
		fields["text"] = "may not be blank"
	}
	validateSets(input, fields)
	if len(fields) > 0 {
		return nil, apperr.ValidationFields("invalid recipe data", fields)
	}

	if input.Name != nil {
		recipe.Name = *input.Name
	}
	if input.Text != nil {
		recipe.Text = *input.Text
	}
	if input.CookingTime != nil {
		recipe.CookingTime = *input.CookingTime
	}
	if input.Image != nil && *input.Image != "" {
		resolved, err := s.images.Resolve(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = resolved
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, input.Ingredients); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
			return err
		}

		// Full replacement, not a merge: the prior sets are dropped entirely.
		if err := tx.Model(recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createIngredientLines(tx, recipe.ID, input.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

// Delete removes a recipe together with its join rows and any membership
// entries pointing at it. Only the author or staff may delete.
func (s *RecipeService) Delete(ctx context.Context, recipeID, callerID uint) error {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, recipe, callerID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		for _, m := range []interface{}{
			&models.RecipeIngredient{},
			&models.FavoriteRecipe{},
			&models.ShoppingCartEntry{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, recipe.ID).Error
	})
}

// Get loads a recipe with its tags, ingredient lines, and author.
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns a page of recipes matching the filter, oldest first, plus the
// total match count.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter, viewerID *uint, page pagination.Params) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		// OR semantics: any of the given slugs matches.
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.Favorited && viewerID != nil {
		favorited := s.db.Model(&models.FavoriteRecipe{}).
			Select("recipe_id").Where("user_id = ?", *viewerID)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if filter.InShoppingCart && viewerID != nil {
		carted := s.db.Model(&models.ShoppingCartEntry{}).
			Select("recipe_id").Where("user_id = ?", *viewerID)
		query = query.Where("recipes.id IN (?)", carted)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.created_at").Order("recipes.id").
		Scopes(page.Scope()).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

// ListByAuthor returns up to limit recipes by one author (limit <= 0 means
// no truncation) plus the author's total recipe count.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at").Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

// Annotations reports which of the given recipes the viewer has favorited or
// put in the shopping cart. Both maps are empty for anonymous viewers.
func (s *RecipeService) Annotations(ctx context.Context, viewerID *uint, recipeIDs []uint) (map[uint]bool, map[uint]bool, error) {
	favorited := map[uint]bool{}
	inCart := map[uint]bool{}
	if viewerID == nil || len(recipeIDs) == 0 {
		return favorited, inCart, nil
	}

	var favRows []models.FavoriteRecipe
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).
		Find(&favRows).Error; err != nil {
		return nil, nil, err
	}
	for _, row := range favRows {
		favorited[row.RecipeID] = true
	}

	var cartRows []models.ShoppingCartEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).
		Find(&cartRows).Error; err != nil {
		return nil, nil, err
	}
	for _, row := range cartRows {
		inCart[row.RecipeID] = true
	}
	return favorited, inCart, nil
}

func (s *RecipeService) authorize(ctx context.Context, recipe *models.Recipe, callerID uint) error {
	if recipe.AuthorID == callerID {
		return nil
	}
	var caller models.User
	if err := s.db.WithContext(ctx).First(&caller, callerID).Error; err != nil {
		return apperr.Forbidden("you do not have permission to modify this recipe")
	}
	if caller.IsStaff {
		return nil
	}
	return apperr.Forbidden("you do not have permission to modify this recipe")
}

// validateSets checks the tag and ingredient sets shared by create and
// update: both non-empty, positive amounts and cooking time, no duplicate
// ingredient within one request. Duplicate tag ids are tolerated; the join is
// keyed by the pair and resolveTags deduplicates them.
func validateSets(input RecipeInput, fields map[string]string) {
	if input.CookingTime != nil && *input.CookingTime <= 0 {
		fields["cooking_time"] = "must be a positive integer"
	}
	if len(input.TagIDs) == 0 {
		fields["tags"] = "at least one tag is required"
	}
	if len(input.Ingredients) == 0 {
		fields["ingredients"] = "at least one ingredient is required"
		return
	}
	seen := map[uint]bool{}
	for _, line := range input.Ingredients {
		if line.Amount <= 0 {
			fields["ingredients"] = "amount must be a positive integer"
			return
		}
		if seen[line.ID] {
			fields["ingredients"] = fmt.Sprintf("duplicate ingredient id %d", line.ID)
			return
		}
		seen[line.ID] = true
	}
}

// resolveTags loads the referenced tags, deduplicating ids, and fails the
// surrounding transaction if any id is unknown.
func resolveTags(tx *gorm.DB, tagIDs []uint) ([]models.Tag, error) {
	unique := make([]uint, 0, len(tagIDs))
	seen := map[uint]bool{}
	for _, id := range tagIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var tags []models.Tag
	if err := tx.Where("id IN ?", unique).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, apperr.ValidationFields("invalid recipe data", map[string]string{
			"tags": "tag does not exist",
		})
	}
	return tags, nil
}

func checkIngredientsExist(tx *gorm.DB, lines []IngredientLine) error {
	ids := make([]uint, len(lines))
	for i, line := range lines {
		ids[i] = line.ID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return apperr.ValidationFields("invalid recipe data", map[string]string{
			"ingredients": "ingredient does not exist",
		})
	}
	return nil
}

func createIngredientLines(tx *gorm.DB, recipeID uint, lines []IngredientLine) error {
	rows := make([]models.RecipeIngredient, len(lines))
	for i, line := range lines {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.ID,
			Amount:       line.Amount,
		}
	}
	return tx.Create(&rows).Error
}
