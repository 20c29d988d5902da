package quotes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// Repository wires together all quote-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads the quote with its replies, oldest first.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	if err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("replied_at ASC") }).
		First(&quote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

// Create inserts the quote row.
func (r *Repository) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

// UpdateStatus sets the quote status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.QuoteStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddReply appends a staff reply to the quote.
func (r *Repository) AddReply(ctx context.Context, reply *models.QuoteReply) (*models.QuoteReply, error) {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// ListFilters narrows the quote listing.
type ListFilters struct {
	Status *enums.QuoteStatus
}

// List returns one page of quotes plus the filtered total.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Quote, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Quote{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Quote
	if err := query.
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(params.Limit)).
		Offset(params.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
