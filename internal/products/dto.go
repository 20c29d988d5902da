package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// ProductDTO is the API representation of a product.
type ProductDTO struct {
	ID                uuid.UUID           `json:"id"`
	Name              string              `json:"name"`
	Abbreviation      *string             `json:"abbreviation,omitempty"`
	Slug              string              `json:"slug"`
	NatureID          uuid.UUID           `json:"natureId"`
	PlantID           uuid.UUID           `json:"plantId"`
	Description       string              `json:"description"`
	ShortDescription  *string             `json:"shortDescription,omitempty"`
	IsActive          bool                `json:"isActive"`
	Status            enums.ProductStatus `json:"status"`
	BrochureURL       *string             `json:"brochureUrl,omitempty"`
	BrochureTitle     *string             `json:"brochureTitle,omitempty"`
	TDSURL            *string             `json:"tdsUrl,omitempty"`
	TDSTitle          *string             `json:"tdsTitle,omitempty"`
	SEOTitle          *string             `json:"seoTitle,omitempty"`
	SEODescription    *string             `json:"seoDescription,omitempty"`
	SEOKeywords       []string            `json:"seoKeywords"`
	Applications      []string            `json:"applications"`
	PlantAvailability []string            `json:"plantAvailability"`
	Images            []ProductImageDTO   `json:"images"`
	Specifications    []SpecificationDTO  `json:"specifications"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// ProductImageDTO is one gallery entry.
type ProductImageDTO struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"isPrimary"`
	Position  int    `json:"position"`
}

// SpecificationDTO is one technical spec row.
type SpecificationDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProductListResult is one page of products.
type ProductListResult struct {
	Items []ProductDTO    `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// NewProductDTO maps the model to its API shape.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}

	images := make([]ProductImageDTO, 0, len(product.Images))
	for _, img := range product.Images {
		images = append(images, ProductImageDTO{
			URL:       img.URL,
			Alt:       img.Alt,
			IsPrimary: img.IsPrimary,
			Position:  img.Position,
		})
	}

	specs := make([]SpecificationDTO, 0, len(product.Specifications))
	for _, spec := range product.Specifications {
		specs = append(specs, SpecificationDTO{Key: spec.Key, Value: spec.Value})
	}

	return &ProductDTO{
		ID:                product.ID,
		Name:              product.Name,
		Abbreviation:      product.Abbreviation,
		Slug:              product.Slug,
		NatureID:          product.NatureID,
		PlantID:           product.PlantID,
		Description:       product.Description,
		ShortDescription:  product.ShortDescription,
		IsActive:          product.IsActive,
		Status:            product.Status,
		BrochureURL:       product.BrochureURL,
		BrochureTitle:     product.BrochureTitle,
		TDSURL:            product.TDSURL,
		TDSTitle:          product.TDSTitle,
		SEOTitle:          product.SEOTitle,
		SEODescription:    product.SEODescription,
		SEOKeywords:       product.SEOKeywords,
		Applications:      product.Applications,
		PlantAvailability: product.PlantAvailability,
		Images:            images,
		Specifications:    specs,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
}
