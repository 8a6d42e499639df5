package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ShoppingReportLine is one aggregated ingredient of the shopping report.
type ShoppingReportLine struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// ShoppingService builds the aggregated shopping report: every ingredient
// line of every recipe in the user's shopping cart, summed per
// (name, measurement unit). Pure read; always reflects current store state.
type ShoppingService struct {
	db *gorm.DB
}

func NewShoppingService(db *gorm.DB) *ShoppingService {
	return &ShoppingService{db: db}
}

// BuildReport aggregates the user's shopping cart, ordered by ingredient
// name for deterministic output.
func (s *ShoppingService) BuildReport(ctx context.Context, userID uint) ([]ShoppingReportLine, error) {
	var lines []ShoppingReportLine
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Render formats the report as the downloadable plain-text document: a
// header line followed by one "{name} - {total} {unit}" line per group.
func (s *ShoppingService) Render(lines []ShoppingReportLine) string {
	var b strings.Builder
	b.WriteString("Shopping list:")
	for _, line := range lines {
		fmt.Fprintf(&b, "\n%s - %d %s", line.Name, line.Total, line.MeasurementUnit)
	}
	return b.String()
}
