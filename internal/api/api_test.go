package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
	"github.com/Zh-Andrew/foodgram-project-react/internal/testhelpers"
)

// setupTestRouter wires the full API surface against an in-memory database,
// without the rate limiter and without CORS.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)

	auth := service.NewAuthService(db, "test-secret")
	images := service.NewImageService(service.NewLocalImageStore(t.TempDir()))
	recipes := service.NewRecipeService(db, images)
	memberships := service.NewMembershipService(db)
	shopping := service.NewShoppingService(db)
	subscriptions := service.NewSubscriptionService(db)
	catalog := service.NewCatalogService(db)

	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	NewAuthHandler(auth).RegisterRoutes(v1, nil)
	NewUserHandler(db, auth, subscriptions, recipes).RegisterRoutes(v1)
	NewTagHandler(catalog).RegisterRoutes(v1)
	NewIngredientHandler(catalog).RegisterRoutes(v1)
	NewRecipeHandler(auth, recipes, memberships, shopping, subscriptions).RegisterRoutes(v1)

	return router, db
}

func createTestUserAndToken(t *testing.T, db *gorm.DB, username string) (*models.User, string) {
	t.Helper()
	auth := service.NewAuthService(db, "test-secret")
	user, token, err := auth.Register(username+"@example.com", username, "Test", "User", "password123")
	if err != nil {
		t.Fatalf("failed to register user %q: %v", username, err)
	}
	return user, token
}

// seedCatalog creates one tag and two ingredients and returns their ids.
func seedCatalog(t *testing.T, db *gorm.DB) (tagID, flourID, milkID uint) {
	t.Helper()
	tag := models.Tag{Name: "Breakfast", Color: models.TagColorOrange, Slug: "breakfast"}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	flour := models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	milk := models.Ingredient{Name: "milk", MeasurementUnit: "ml"}
	if err := db.Create(&flour).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	if err := db.Create(&milk).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return tag.ID, flour.ID, milk.ID
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// pancakesBody is a valid recipe create payload against the seeded catalog.
func pancakesBody(tagID, flourID, milkID uint) map[string]interface{} {
	return map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"image":        "/media/pancakes.jpg",
		"cooking_time": 15,
		"tags":         []uint{tagID},
		"ingredients": []map[string]interface{}{
			{"id": flourID, "amount": 100},
			{"id": milkID, "amount": 300},
		},
	}
}
