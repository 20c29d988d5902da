package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// DocumentDTO is the API representation of a document.
type DocumentDTO struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	Type      enums.DocumentType `json:"type"`
	FileURL   string             `json:"fileUrl"`
	ProductID *uuid.UUID         `json:"productId,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// DocumentListResult is one page of documents.
type DocumentListResult struct {
	Items []DocumentDTO   `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// NewDocumentDTO maps the model to its API shape.
func NewDocumentDTO(document *models.Document) *DocumentDTO {
	if document == nil {
		return nil
	}
	return &DocumentDTO{
		ID:        document.ID,
		Title:     document.Title,
		Type:      document.Type,
		FileURL:   document.FileURL,
		ProductID: document.ProductID,
		CreatedAt: document.CreatedAt,
		UpdatedAt: document.UpdatedAt,
	}
}
