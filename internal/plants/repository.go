package plants

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// Repository wires together all plant-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads the plant row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Plant, error) {
	var plant models.Plant
	if err := r.db.WithContext(ctx).First(&plant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plant, nil
}

// FindByIDOrSlug resolves the identifier as a uuid first, then as a slug.
func (r *Repository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Plant, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return r.FindByID(ctx, id)
	}
	var plant models.Plant
	if err := r.db.WithContext(ctx).First(&plant, "slug = ?", strings.TrimSpace(idOrSlug)).Error; err != nil {
		return nil, err
	}
	return &plant, nil
}

// Create inserts the plant row.
func (r *Repository) Create(ctx context.Context, plant *models.Plant) (*models.Plant, error) {
	if err := r.db.WithContext(ctx).Create(plant).Error; err != nil {
		return nil, err
	}
	return plant, nil
}

// Update saves the mutated plant row.
func (r *Repository) Update(ctx context.Context, plant *models.Plant) (*models.Plant, error) {
	if err := r.db.WithContext(ctx).Save(plant).Error; err != nil {
		return nil, err
	}
	return plant, nil
}

// ListFilters narrows the plant listing.
type ListFilters struct {
	IsActive *bool
}

// List returns one page of plants plus the filtered total.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Plant, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Plant{})
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Plant
	if err := query.
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(params.Limit)).
		Offset(params.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountActiveNatures counts active natures referencing the plant.
func (r *Repository) CountActiveNatures(ctx context.Context, plantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Nature{}).
		Where("plant_id = ? AND is_active = TRUE", plantID).
		Count(&count).Error
	return count, err
}

// CountActiveProducts counts active products referencing the plant.
func (r *Repository) CountActiveProducts(ctx context.Context, plantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("plant_id = ? AND is_active = TRUE", plantID).
		Count(&count).Error
	return count, err
}
