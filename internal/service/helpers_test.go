package service_test

import (
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
	"github.com/Zh-Andrew/foodgram-project-react/internal/testhelpers"
)

func setupServiceTest(t *testing.T) (*gorm.DB, *service.RecipeService) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	images := service.NewImageService(service.NewLocalImageStore(t.TempDir()))
	return db, service.NewRecipeService(db, images)
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return &user
}

func createTestStaff(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := createTestUser(t, db, username)
	if err := db.Model(user).Update("is_staff", true).Error; err != nil {
		t.Fatalf("failed to promote user %q: %v", username, err)
	}
	user.IsStaff = true
	return user
}

func createTestTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: models.TagColorGreen, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create tag %q: %v", slug, err)
	}
	return tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %q: %v", name, err)
	}
	return ingredient
}

func recipeInput(name string, tagIDs []uint, lines []service.IngredientLine) service.RecipeInput {
	text := "How to cook " + name
	image := fmt.Sprintf("/media/%s.jpg", name)
	cookingTime := 15
	return service.RecipeInput{
		Name:        &name,
		Text:        &text,
		Image:       &image,
		CookingTime: &cookingTime,
		TagIDs:      tagIDs,
		Ingredients: lines,
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func uintPtr(u uint) *uint    { return &u }
