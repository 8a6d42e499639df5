package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zh-Andrew/foodgram-project-react/internal/middleware"
	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
	"github.com/Zh-Andrew/foodgram-project-react/internal/pagination"
	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
)

// UserHandler serves the user catalog and the subscription actions.
type UserHandler struct {
	db            *gorm.DB
	auth          *service.AuthService
	subscriptions *service.SubscriptionService
	recipes       *service.RecipeService
}

func NewUserHandler(db *gorm.DB, auth *service.AuthService, subscriptions *service.SubscriptionService, recipes *service.RecipeService) *UserHandler {
	return &UserHandler{
		db:            db,
		auth:          auth,
		subscriptions: subscriptions,
		recipes:       recipes,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.AuthOptional(h.auth), h.ListUsers)
		users.GET("/me", middleware.AuthRequired(h.auth), h.Me)
		users.GET("/subscriptions", middleware.AuthRequired(h.auth), h.ListSubscriptions)
		users.GET("/:id", middleware.AuthOptional(h.auth), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthRequired(h.auth), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthRequired(h.auth), h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page := pagination.NewParams(c.Query("page"), c.Query("limit"))

	var count int64
	if err := h.db.Model(&models.User{}).Count(&count).Error; err != nil {
		renderError(c, err)
		return
	}

	var users []models.User
	if err := h.db.Order("id").Scopes(page.Scope()).Find(&users).Error; err != nil {
		renderError(c, err)
		return
	}

	viewer := viewerID(c)
	authorIDs := make([]uint, len(users))
	for i := range users {
		authorIDs[i] = users[i].ID
	}
	subscribed, err := h.subscriptions.SubscribedAuthorIDs(c.Request.Context(), viewer, authorIDs)
	if err != nil {
		renderError(c, err)
		return
	}

	views := make([]UserView, len(users))
	for i := range users {
		views[i] = newUserView(&users[i], subscribed[users[i].ID])
	}
	c.JSON(http.StatusOK, pagination.NewResponse(c.Request.URL, page, count, views))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	user, err := h.auth.GetUser(userID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user, false))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.auth.GetUser(id)
	if err != nil {
		renderError(c, err)
		return
	}

	subscribed, err := h.subscriptions.IsSubscribed(c.Request.Context(), viewerID(c), user.ID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user, subscribed))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	author, err := h.subscriptions.Subscribe(c.Request.Context(), userID, id)
	if err != nil {
		renderError(c, err)
		return
	}

	view, err := h.authorView(c, author)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	page := pagination.NewParams(c.Query("page"), c.Query("limit"))

	authors, count, err := h.subscriptions.Authors(c.Request.Context(), userID, page)
	if err != nil {
		renderError(c, err)
		return
	}

	views := make([]AuthorView, len(authors))
	for i := range authors {
		view, err := h.authorView(c, &authors[i])
		if err != nil {
			renderError(c, err)
			return
		}
		views[i] = view
	}
	c.JSON(http.StatusOK, pagination.NewResponse(c.Request.URL, page, count, views))
}

// authorView assembles the subscription view-model: the author, a page of
// their recipes truncated to the caller's recipes_limit, and the untruncated
// recipe count.
func (h *UserHandler) authorView(c *gin.Context, author *models.User) (AuthorView, error) {
	limit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	recipes, count, err := h.recipes.ListByAuthor(c.Request.Context(), author.ID, limit)
	if err != nil {
		return AuthorView{}, err
	}
	return newAuthorView(author, recipes, count), nil
}

// viewerID returns the authenticated viewer's id, or nil for anonymous
// requests.
func viewerID(c *gin.Context) *uint {
	if id, ok := middleware.CurrentUserID(c); ok {
		return &id
	}
	return nil
}

// pathID parses the numeric :id path parameter, writing a 404 on garbage
// (unknown ids and malformed ids look the same to callers).
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}
