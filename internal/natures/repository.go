package natures

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// Repository wires together all nature-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads the nature row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Nature, error) {
	var nature models.Nature
	if err := r.db.WithContext(ctx).First(&nature, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &nature, nil
}

// FindByIDOrSlug resolves the identifier as a uuid first, then as a slug.
func (r *Repository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Nature, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return r.FindByID(ctx, id)
	}
	var nature models.Nature
	if err := r.db.WithContext(ctx).First(&nature, "slug = ?", strings.TrimSpace(idOrSlug)).Error; err != nil {
		return nil, err
	}
	return &nature, nil
}

// Create inserts the nature row.
func (r *Repository) Create(ctx context.Context, nature *models.Nature) (*models.Nature, error) {
	if err := r.db.WithContext(ctx).Create(nature).Error; err != nil {
		return nil, err
	}
	return nature, nil
}

// Update saves the mutated nature row.
func (r *Repository) Update(ctx context.Context, nature *models.Nature) (*models.Nature, error) {
	if err := r.db.WithContext(ctx).Save(nature).Error; err != nil {
		return nil, err
	}
	return nature, nil
}

// ListFilters narrows the nature listing.
type ListFilters struct {
	IsActive *bool
	PlantID  *uuid.UUID
}

// List returns one page of natures plus the filtered total.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Nature, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Nature{})
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.PlantID != nil {
		query = query.Where("plant_id = ?", *filters.PlantID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Nature
	if err := query.
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(params.Limit)).
		Offset(params.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountActiveProducts counts active products referencing the nature.
func (r *Repository) CountActiveProducts(ctx context.Context, natureID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("nature_id = ? AND is_active = TRUE", natureID).
		Count(&count).Error
	return count, err
}
