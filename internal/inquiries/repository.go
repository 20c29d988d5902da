package inquiries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// Repository wires together all inquiry-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads the inquiry with its replies, oldest first.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("replied_at ASC") }).
		First(&inquiry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// Create inserts the inquiry row.
func (r *Repository) Create(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
	if err := r.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		return nil, err
	}
	return inquiry, nil
}

// UpdateStatus sets the inquiry status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InquiryStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Inquiry{}).
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

// AddReply appends a staff reply to the inquiry.
func (r *Repository) AddReply(ctx context.Context, reply *models.InquiryReply) (*models.InquiryReply, error) {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// ListFilters narrows the inquiry listing.
type ListFilters struct {
	Status    *enums.InquiryStatus
	Purpose   *enums.InquiryPurpose
	ProductID *uuid.UUID
}

// List returns one page of inquiries plus the filtered total.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Inquiry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Inquiry{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Purpose != nil {
		query = query.Where("purpose = ?", *filters.Purpose)
	}
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Inquiry
	if err := query.
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(params.Limit)).
		Offset(params.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
