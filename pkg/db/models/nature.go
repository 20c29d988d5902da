package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Nature represents a product category produced at a plant.
type Nature struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string         `gorm:"column:name;not null;uniqueIndex:idx_natures_name"`
	Slug              string         `gorm:"column:slug;not null;uniqueIndex:idx_natures_slug"`
	PlantID           uuid.UUID      `gorm:"column:plant_id;type:uuid;not null"`
	Plant             *Plant         `gorm:"foreignKey:PlantID"`
	Description       string         `gorm:"column:description;not null"`
	ImageURL          *string        `gorm:"column:image_url"`
	TechnicalOverview *string        `gorm:"column:technical_overview"`
	Applications      *string        `gorm:"column:applications"`
	KeyFeatures       *string        `gorm:"column:key_features"`
	RelatedIndustries pq.StringArray `gorm:"column:related_industries;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive          bool           `gorm:"column:is_active;not null;default:true"`
	SEOTitle          *string        `gorm:"column:seo_title"`
	SEODescription    *string        `gorm:"column:seo_description"`
	SEOKeywords       pq.StringArray `gorm:"column:seo_keywords;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
