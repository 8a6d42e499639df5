package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/Zh-Andrew/foodgram-project-react/internal/apperr"
	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
)

// CatalogService serves the admin-managed reference data: tags and
// ingredients. Read-mostly; the only write path is the CSV ingredient import.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListTags returns all tags.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTag returns one tag by id.
func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tag not found")
		}
		return nil, err
	}
	return &tag, nil
}

// ListIngredients returns ingredients ordered by name, optionally restricted
// to a name prefix (the "^name" search of the original API).
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name")
	if namePrefix != "" {
		query = query.Where("name LIKE ?", namePrefix+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetIngredient returns one ingredient by id.
func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ingredient not found")
		}
		return nil, err
	}
	return &ingredient, nil
}

// ImportIngredients loads "name,measurement_unit" CSV rows (an optional
// leading id column is ignored) and creates any ingredient not present yet.
// Returns the number of rows created.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	created := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return created, fmt.Errorf("failed to read CSV row: %w", err)
		}

		var name, unit string
		switch len(row) {
		case 2:
			name, unit = row[0], row[1]
		case 3:
			name, unit = row[1], row[2]
		default:
			return created, fmt.Errorf("unexpected CSV row with %d columns", len(row))
		}

		ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
		result := s.db.WithContext(ctx).
			Where(models.Ingredient{Name: name, MeasurementUnit: unit}).
			FirstOrCreate(&ingredient)
		if result.Error != nil {
			return created, result.Error
		}
		if result.RowsAffected > 0 {
			created++
		}
	}
	return created, nil
}
