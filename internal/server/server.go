package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Zh-Andrew/foodgram-project-react/config"
	"github.com/Zh-Andrew/foodgram-project-react/internal/api"
	"github.com/Zh-Andrew/foodgram-project-react/internal/database"
	"github.com/Zh-Andrew/foodgram-project-react/internal/middleware"
	"github.com/Zh-Andrew/foodgram-project-react/internal/router"
	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
)

// Server wires the services and handlers together and owns the HTTP
// listener's lifecycle.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *database.DB
}

// New connects to the backing stores, migrates the schema, and builds the
// fully wired server.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := database.AutoMigrate(db.Gorm); err != nil {
		return nil, fmt.Errorf("migration: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	var limiter gin.HandlerFunc
	if redisClient != nil {
		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     20,
			KeyPrefix: "ratelimit:auth",
		}).Middleware()
	} else {
		logrus.Warn("redis not configured, auth rate limiting disabled")
	}

	var store service.ImageStore
	s3cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("s3: %w", err)
	}
	if s3cfg != nil {
		// Recipe images are served straight from the bucket.
		if err := s3cfg.SetupBucketPolicy(context.Background()); err != nil {
			logrus.WithError(err).Warn("failed to apply bucket policy")
		}
		store = service.NewS3ImageStore(s3cfg)
	} else {
		logrus.WithField("dir", cfg.MediaDir).Info("S3 not configured, storing images locally")
		store = service.NewLocalImageStore(cfg.MediaDir)
	}

	authService := service.NewAuthService(db.Gorm, cfg.JWTSecret)
	imageService := service.NewImageService(store)
	recipeService := service.NewRecipeService(db.Gorm, imageService)
	membershipService := service.NewMembershipService(db.Gorm)
	shoppingService := service.NewShoppingService(db.Gorm)
	subscriptionService := service.NewSubscriptionService(db.Gorm)
	catalogService := service.NewCatalogService(db.Gorm)

	engine := router.Setup(router.Handlers{
		Auth:       api.NewAuthHandler(authService),
		User:       api.NewUserHandler(db.Gorm, authService, subscriptionService, recipeService),
		Tag:        api.NewTagHandler(catalogService),
		Ingredient: api.NewIngredientHandler(catalogService),
		Recipe: api.NewRecipeHandler(
			authService, recipeService, membershipService, shoppingService, subscriptionService,
		),
		RateLimiter: limiter,
		HealthCheck: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.HealthCheck(ctx)
		},
	})

	return &Server{
		engine: engine,
		db:     db,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}, nil
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	logrus.WithField("addr", s.http.Addr).Info("starting server")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	return s.db.Close()
}
