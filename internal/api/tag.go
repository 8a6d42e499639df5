package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
)

// TagHandler serves the read-only tag catalog.
type TagHandler struct {
	catalog *service.CatalogService
}

func NewTagHandler(catalog *service.CatalogService) *TagHandler {
	return &TagHandler{catalog: catalog}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}
