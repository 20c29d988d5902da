package documents

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// Repository wires together all document-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads the document row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var document models.Document
	if err := r.db.WithContext(ctx).First(&document, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

// Create inserts the document row.
func (r *Repository) Create(ctx context.Context, document *models.Document) (*models.Document, error) {
	if err := r.db.WithContext(ctx).Create(document).Error; err != nil {
		return nil, err
	}
	return document, nil
}

// Delete removes the document row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", id).Error
}

// ListFilters narrows the document listing.
type ListFilters struct {
	Type      *enums.DocumentType
	ProductID *uuid.UUID
}

// List returns one page of documents plus the filtered total.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Document, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Document{})
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Document
	if err := query.
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(params.Limit)).
		Offset(params.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
