package plants

import (
	"time"

	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// PlantDTO is the API representation of a plant.
type PlantDTO struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description"`
	Capacity       *string    `json:"capacity,omitempty"`
	Location       string     `json:"location"`
	Established    *time.Time `json:"established,omitempty"`
	Machinery      []string   `json:"machinery"`
	Certifications []string   `json:"certifications"`
	IsActive       bool       `json:"isActive"`
	SEOTitle       *string    `json:"seoTitle,omitempty"`
	SEODescription *string    `json:"seoDescription,omitempty"`
	SEOKeywords    []string   `json:"seoKeywords"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// PlantListResult is one page of plants.
type PlantListResult struct {
	Items []PlantDTO      `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// NewPlantDTO maps the model to its API shape.
func NewPlantDTO(plant *models.Plant) *PlantDTO {
	if plant == nil {
		return nil
	}
	return &PlantDTO{
		ID:             plant.ID,
		Name:           plant.Name,
		Slug:           plant.Slug,
		Description:    plant.Description,
		Capacity:       plant.Capacity,
		Location:       plant.Location,
		Established:    plant.Established,
		Machinery:      plant.Machinery,
		Certifications: plant.Certifications,
		IsActive:       plant.IsActive,
		SEOTitle:       plant.SEOTitle,
		SEODescription: plant.SEODescription,
		SEOKeywords:    plant.SEOKeywords,
		CreatedAt:      plant.CreatedAt,
		UpdatedAt:      plant.UpdatedAt,
	}
}
