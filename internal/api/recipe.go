package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zh-Andrew/foodgram-project-react/internal/middleware"
	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
	"github.com/Zh-Andrew/foodgram-project-react/internal/pagination"
	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
)

// RecipeHandler serves recipe CRUD, the membership actions, and the shopping
// list download.
type RecipeHandler struct {
	auth          *service.AuthService
	recipes       *service.RecipeService
	memberships   *service.MembershipService
	shopping      *service.ShoppingService
	subscriptions *service.SubscriptionService
}

func NewRecipeHandler(
	auth *service.AuthService,
	recipes *service.RecipeService,
	memberships *service.MembershipService,
	shopping *service.ShoppingService,
	subscriptions *service.SubscriptionService,
) *RecipeHandler {
	return &RecipeHandler{
		auth:          auth,
		recipes:       recipes,
		memberships:   memberships,
		shopping:      shopping,
		subscriptions: subscriptions,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.AuthOptional(h.auth), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthRequired(h.auth), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.AuthOptional(h.auth), h.GetRecipe)
		recipes.POST("", middleware.AuthRequired(h.auth), h.CreateRecipe)
		recipes.PATCH("/:id", middleware.AuthRequired(h.auth), h.UpdateRecipe)
		recipes.PUT("/:id", middleware.AuthRequired(h.auth), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthRequired(h.auth), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.AuthRequired(h.auth), h.Favorite)
		recipes.DELETE("/:id/favorite", middleware.AuthRequired(h.auth), h.Unfavorite)
		recipes.POST("/:id/shopping_cart", middleware.AuthRequired(h.auth), h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthRequired(h.auth), h.RemoveFromShoppingCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := viewerID(c)
	page := pagination.NewParams(c.Query("page"), c.Query("limit"))

	filter := service.RecipeFilter{
		TagSlugs:       c.QueryArray("tags"),
		Favorited:      boolQuery(c, "is_favorited"),
		InShoppingCart: boolQuery(c, "is_in_shopping_cart"),
	}
	if raw := c.Query("author"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			authorID := uint(id)
			filter.AuthorID = &authorID
		}
	}

	recipes, count, err := h.recipes.List(c.Request.Context(), filter, viewer, page)
	if err != nil {
		renderError(c, err)
		return
	}

	views, err := h.recipeViews(c, viewer, recipes)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.NewResponse(c.Request.URL, page, count, views))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	view, err := h.recipeView(c, viewerID(c), recipe)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		renderError(c, err)
		return
	}

	view, err := h.recipeView(c, &userID, recipe)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, req.toInput())
	if err != nil {
		renderError(c, err)
		return
	}

	view, err := h.recipeView(c, &userID, recipe)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	if err := h.recipes.Delete(c.Request.Context(), id, userID); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addMembership(c, h.memberships.AddFavorite)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeMembership(c, h.memberships.RemoveFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addMembership(c, h.memberships.AddToShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeMembership(c, h.memberships.RemoveFromShoppingCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	lines, err := h.shopping.BuildReport(c.Request.Context(), userID)
	if err != nil {
		renderError(c, err)
		return
	}

	body := h.shopping.Render(lines)
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func (h *RecipeHandler) addMembership(c *gin.Context, add func(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	recipe, err := add(c.Request.Context(), userID, id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeSummary(recipe))
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove func(ctx context.Context, userID, recipeID uint) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	if err := remove(c.Request.Context(), userID, id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipeViews maps recipes to per-viewer views in one annotation round trip.
func (h *RecipeHandler) recipeViews(c *gin.Context, viewer *uint, recipes []models.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	favorited, inCart, err := h.recipes.Annotations(c.Request.Context(), viewer, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := h.subscriptions.SubscribedAuthorIDs(c.Request.Context(), viewer, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]RecipeView, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		views[i] = newRecipeView(r, favorited[r.ID], inCart[r.ID], subscribed[r.AuthorID])
	}
	return views, nil
}

func (h *RecipeHandler) recipeView(c *gin.Context, viewer *uint, recipe *models.Recipe) (RecipeView, error) {
	views, err := h.recipeViews(c, viewer, []models.Recipe{*recipe})
	if err != nil {
		return RecipeView{}, err
	}
	return views[0], nil
}

// boolQuery treats "1" and "true" as true, anything else as false.
func boolQuery(c *gin.Context, key string) bool {
	v := c.Query(key)
	return v == "1" || v == "true"
}
