package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
)

// IngredientHandler serves the read-only ingredient catalog with name-prefix
// search.
type IngredientHandler struct {
	catalog *service.CatalogService
}

func NewIngredientHandler(catalog *service.CatalogService) *IngredientHandler {
	return &IngredientHandler{catalog: catalog}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalog.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ingredient, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
