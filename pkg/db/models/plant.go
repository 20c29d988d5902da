package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Plant represents a manufacturing facility.
type Plant struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string         `gorm:"column:name;not null;uniqueIndex:idx_plants_name"`
	Slug           string         `gorm:"column:slug;not null;uniqueIndex:idx_plants_slug"`
	Description    string         `gorm:"column:description;not null"`
	Capacity       *string        `gorm:"column:capacity"`
	Location       string         `gorm:"column:location;not null"`
	Established    *time.Time     `gorm:"column:established"`
	Machinery      pq.StringArray `gorm:"column:machinery;type:text[];not null;default:ARRAY[]::text[]"`
	Certifications pq.StringArray `gorm:"column:certifications;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	SEOTitle       *string        `gorm:"column:seo_title"`
	SEODescription *string        `gorm:"column:seo_description"`
	SEOKeywords    pq.StringArray `gorm:"column:seo_keywords;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
