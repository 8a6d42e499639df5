package api

import (
	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
)

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// LoginRequest is the request body for obtaining a token.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IngredientLineRequest is one ingredient reference with its amount.
type IngredientLineRequest struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeRequest is the request body for creating or updating a recipe.
// Scalars are pointers so updates can distinguish "absent" from "empty".
type RecipeRequest struct {
	Name        *string                 `json:"name"`
	Text        *string                 `json:"text"`
	Image       *string                 `json:"image"`
	CookingTime *int                    `json:"cooking_time"`
	Tags        []uint                  `json:"tags"`
	Ingredients []IngredientLineRequest `json:"ingredients"`
}

func (r RecipeRequest) toInput() service.RecipeInput {
	lines := make([]service.IngredientLine, len(r.Ingredients))
	for i, line := range r.Ingredients {
		lines[i] = service.IngredientLine{ID: line.ID, Amount: line.Amount}
	}
	return service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
		Ingredients: lines,
	}
}

// UserView is how a user appears to a given viewer.
type UserView struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func newUserView(user *models.User, isSubscribed bool) UserView {
	return UserView{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

// IngredientAmountView is one ingredient line of a recipe response.
type IngredientAmountView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is the full per-viewer recipe representation.
type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []models.Tag           `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []IngredientAmountView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

func newRecipeView(recipe *models.Recipe, isFavorited, inCart, authorSubscribed bool) RecipeView {
	view := RecipeView{
		ID:               recipe.ID,
		Tags:             recipe.Tags,
		Ingredients:      make([]IngredientAmountView, 0, len(recipe.Ingredients)),
		IsFavorited:      isFavorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
	if view.Tags == nil {
		view.Tags = []models.Tag{}
	}
	if recipe.Author != nil {
		view.Author = newUserView(recipe.Author, authorSubscribed)
	}
	for _, line := range recipe.Ingredients {
		item := IngredientAmountView{
			ID:     line.IngredientID,
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		view.Ingredients = append(view.Ingredients, item)
	}
	return view
}

// RecipeSummary is the lightweight recipe shape returned by the membership
// add actions and embedded in author views.
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func newRecipeSummary(recipe *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// AuthorView is a followed author with a page of their recipes.
type AuthorView struct {
	UserView
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func newAuthorView(author *models.User, recipes []models.Recipe, count int64) AuthorView {
	summaries := make([]RecipeSummary, len(recipes))
	for i := range recipes {
		summaries[i] = newRecipeSummary(&recipes[i])
	}
	return AuthorView{
		UserView:     newUserView(author, true),
		Recipes:      summaries,
		RecipesCount: count,
	}
}
