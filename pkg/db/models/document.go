package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/pkg/enums"
)

// Document is a standalone downloadable file, optionally tied to a product.
type Document struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string             `gorm:"column:title;not null"`
	Type      enums.DocumentType `gorm:"column:type;not null"`
	FileURL   string             `gorm:"column:file_url;not null"`
	ProductID *uuid.UUID         `gorm:"column:product_id;type:uuid"`
	Product   *Product           `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
