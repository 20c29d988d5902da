package natures

import (
	"time"

	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// NatureDTO is the API representation of a nature.
type NatureDTO struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	PlantID           uuid.UUID `json:"plantId"`
	Description       string    `json:"description"`
	ImageURL          *string   `json:"imageUrl,omitempty"`
	TechnicalOverview *string   `json:"technicalOverview,omitempty"`
	Applications      *string   `json:"applications,omitempty"`
	KeyFeatures       *string   `json:"keyFeatures,omitempty"`
	RelatedIndustries []string  `json:"relatedIndustries"`
	IsActive          bool      `json:"isActive"`
	SEOTitle          *string   `json:"seoTitle,omitempty"`
	SEODescription    *string   `json:"seoDescription,omitempty"`
	SEOKeywords       []string  `json:"seoKeywords"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// NatureListResult is one page of natures.
type NatureListResult struct {
	Items []NatureDTO     `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// NewNatureDTO maps the model to its API shape.
func NewNatureDTO(nature *models.Nature) *NatureDTO {
	if nature == nil {
		return nil
	}
	return &NatureDTO{
		ID:                nature.ID,
		Name:              nature.Name,
		Slug:              nature.Slug,
		PlantID:           nature.PlantID,
		Description:       nature.Description,
		ImageURL:          nature.ImageURL,
		TechnicalOverview: nature.TechnicalOverview,
		Applications:      nature.Applications,
		KeyFeatures:       nature.KeyFeatures,
		RelatedIndustries: nature.RelatedIndustries,
		IsActive:          nature.IsActive,
		SEOTitle:          nature.SEOTitle,
		SEODescription:    nature.SEODescription,
		SEOKeywords:       nature.SEOKeywords,
		CreatedAt:         nature.CreatedAt,
		UpdatedAt:         nature.UpdatedAt,
	}
}
