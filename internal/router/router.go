package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zh-Andrew/foodgram-project-react/internal/api"
	"github.com/Zh-Andrew/foodgram-project-react/internal/middleware"
)

// Handlers collects everything the router mounts.
type Handlers struct {
	Auth       *api.AuthHandler
	User       *api.UserHandler
	Tag        *api.TagHandler
	Ingredient *api.IngredientHandler
	Recipe     *api.RecipeHandler

	// RateLimiter guards the credential endpoints; nil disables limiting.
	RateLimiter gin.HandlerFunc
	// HealthCheck reports store liveness; nil means always healthy.
	HealthCheck func() error
}

// Setup configures the application routes
func Setup(h Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		if h.HealthCheck != nil {
			if err := h.HealthCheck(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	h.Auth.RegisterRoutes(v1, h.RateLimiter)
	h.User.RegisterRoutes(v1)
	h.Tag.RegisterRoutes(v1)
	h.Ingredient.RegisterRoutes(v1)
	h.Recipe.RegisterRoutes(v1)

	return router
}
