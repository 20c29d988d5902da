package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/geosynthix/catalog-backend/pkg/enums"
)

// Product represents a catalog product with its binary assets.
type Product struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string                 `gorm:"column:name;not null;uniqueIndex:idx_products_name"`
	Abbreviation      *string                `gorm:"column:abbreviation"`
	Slug              string                 `gorm:"column:slug;not null;uniqueIndex:idx_products_slug"`
	NatureID          uuid.UUID              `gorm:"column:nature_id;type:uuid;not null"`
	Nature            *Nature                `gorm:"foreignKey:NatureID"`
	PlantID           uuid.UUID              `gorm:"column:plant_id;type:uuid;not null"`
	Plant             *Plant                 `gorm:"foreignKey:PlantID"`
	Description       string                 `gorm:"column:description;not null"`
	ShortDescription  *string                `gorm:"column:short_description"`
	IsActive          bool                   `gorm:"column:is_active;not null;default:true"`
	Status            enums.ProductStatus    `gorm:"column:status;not null;default:in_stock"`
	BrochureURL       *string                `gorm:"column:brochure_url"`
	BrochureTitle     *string                `gorm:"column:brochure_title"`
	TDSURL            *string                `gorm:"column:tds_url"`
	TDSTitle          *string                `gorm:"column:tds_title"`
	SEOTitle          *string                `gorm:"column:seo_title"`
	SEODescription    *string                `gorm:"column:seo_description"`
	SEOKeywords       pq.StringArray         `gorm:"column:seo_keywords;type:text[];not null;default:ARRAY[]::text[]"`
	Applications      pq.StringArray         `gorm:"column:applications;type:text[];not null;default:ARRAY[]::text[]"`
	PlantAvailability pq.StringArray         `gorm:"column:plant_availability;type:text[];not null;default:ARRAY[]::text[]"`
	Images            []ProductImage         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Specifications    []ProductSpecification `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductImage is one ordered gallery entry. Per product there are between one
// and five rows, exactly one of which is primary, with dense positions from 0.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	URL       string    `gorm:"column:url;not null"`
	Alt       string    `gorm:"column:alt;not null"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	Position  int       `gorm:"column:position;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ProductSpecification is one key/value row of the technical spec table.
type ProductSpecification struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Key       string    `gorm:"column:key;not null"`
	Value     string    `gorm:"column:value;not null"`
	Position  int       `gorm:"column:position;not null"`
}
