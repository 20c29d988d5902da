package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// Repository wires together all product-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product with its gallery and specifications.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Specifications", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDOrSlug resolves the identifier as a uuid first, then as a slug.
func (r *Repository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Product, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return r.FindByID(ctx, id)
	}
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Specifications", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&product, "slug = ?", strings.TrimSpace(idOrSlug)).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts the product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the mutated product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).
		Omit("Images", "Specifications").
		Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// CreateWithAssets inserts the product row with its gallery and specification
// rows inside the provided transaction.
func (r *Repository) CreateWithAssets(ctx context.Context, tx *gorm.DB, product *models.Product, images []models.ProductImage, specs []models.ProductSpecification) error {
	txRepo := r.WithTx(tx)
	if _, err := txRepo.CreateProduct(ctx, product); err != nil {
		return err
	}
	for i := range images {
		images[i].ProductID = product.ID
	}
	for i := range specs {
		specs[i].ProductID = product.ID
	}
	if err := txRepo.ReplaceProductImages(ctx, product.ID, images); err != nil {
		return err
	}
	return txRepo.ReplaceProductSpecifications(ctx, product.ID, specs)
}

// UpdateWithAssets saves the product row inside the provided transaction. A
// non-empty images slice replaces the gallery; specs are replaced only when
// replaceSpecs is set, since an empty spec list is a valid end state.
func (r *Repository) UpdateWithAssets(ctx context.Context, tx *gorm.DB, product *models.Product, images []models.ProductImage, specs []models.ProductSpecification, replaceSpecs bool) error {
	txRepo := r.WithTx(tx)
	if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
		return err
	}
	if len(images) > 0 {
		if err := txRepo.ReplaceProductImages(ctx, product.ID, images); err != nil {
			return err
		}
	}
	if replaceSpecs {
		return txRepo.ReplaceProductSpecifications(ctx, product.ID, specs)
	}
	return nil
}

// DeleteProduct removes the product row; image and specification rows cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ReplaceProductImages replaces the gallery rows for the product.
func (r *Repository) ReplaceProductImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return tx.Create(&images).Error
}

// ReplaceProductSpecifications replaces the specification rows for the product.
func (r *Repository) ReplaceProductSpecifications(ctx context.Context, productID uuid.UUID, specs []models.ProductSpecification) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductSpecification{}).Error; err != nil {
		return err
	}
	if len(specs) == 0 {
		return nil
	}
	return tx.Create(&specs).Error
}

// ListFilters narrows the product listing.
type ListFilters struct {
	IsActive *bool
	NatureID *uuid.UUID
	PlantID  *uuid.UUID
}

// ListProducts returns one page of products plus the filtered total.
func (r *Repository) ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.NatureID != nil {
		query = query.Where("nature_id = ?", *filters.NatureID)
	}
	if filters.PlantID != nil {
		query = query.Where("plant_id = ?", *filters.PlantID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	if err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(params.Limit)).
		Offset(params.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
