package products

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
)

func mustCreateTestPlant(t *testing.T, tx *gorm.DB) *models.Plant {
	t.Helper()
	plant := &models.Plant{
		ID:          uuid.New(),
		Name:        fmt.Sprintf("Plant %s", uuid.NewString()),
		Slug:        fmt.Sprintf("plant-%s", uuid.NewString()),
		Description: "Repo test plant",
		Location:    "Ahmedabad, IN",
		IsActive:    true,
	}
	if err := tx.Create(plant).Error; err != nil {
		t.Fatalf("create plant: %v", err)
	}
	return plant
}

func mustCreateTestNature(t *testing.T, tx *gorm.DB, plantID uuid.UUID) *models.Nature {
	t.Helper()
	nature := &models.Nature{
		ID:          uuid.New(),
		Name:        fmt.Sprintf("Nature %s", uuid.NewString()),
		Slug:        fmt.Sprintf("nature-%s", uuid.NewString()),
		PlantID:     plantID,
		Description: "Repo test nature",
		IsActive:    true,
	}
	if err := tx.Create(nature).Error; err != nil {
		t.Fatalf("create nature: %v", err)
	}
	return nature
}

func buildTestProduct(natureID, plantID uuid.UUID) *models.Product {
	suffix := uuid.NewString()
	return &models.Product{
		Name:        fmt.Sprintf("Product %s", suffix),
		Slug:        fmt.Sprintf("product-%s", suffix),
		NatureID:    natureID,
		PlantID:     plantID,
		Description: "Repo test product",
		IsActive:    true,
		Status:      enums.ProductStatusInStock,
	}
}

func testGalleryRows(productID uuid.UUID, urls ...string) []models.ProductImage {
	rows := make([]models.ProductImage, 0, len(urls))
	for i, url := range urls {
		rows = append(rows, models.ProductImage{
			ProductID: productID,
			URL:       url,
			Alt:       "repo test image",
			IsPrimary: i == 0,
			Position:  i,
		})
	}
	return rows
}
