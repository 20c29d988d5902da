package inquiries

import (
	"time"

	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// InquiryDTO is the API representation of an inquiry.
type InquiryDTO struct {
	ID            uuid.UUID            `json:"id"`
	CustomerName  string               `json:"customerName"`
	CustomerEmail string               `json:"customerEmail"`
	CustomerPhone string               `json:"customerPhone"`
	CompanyName   *string              `json:"companyName,omitempty"`
	City          string               `json:"city"`
	Purpose       enums.InquiryPurpose `json:"purpose"`
	Source        *enums.InquirySource `json:"source,omitempty"`
	Message       string               `json:"message"`
	Consent       bool                 `json:"consent"`
	ProductID     *uuid.UUID           `json:"productId,omitempty"`
	Status        enums.InquiryStatus  `json:"status"`
	Replies       []InquiryReplyDTO    `json:"replies"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// InquiryReplyDTO is one staff response.
type InquiryReplyDTO struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	RepliedAt time.Time `json:"repliedAt"`
}

// InquiryListResult is one page of inquiries.
type InquiryListResult struct {
	Items []InquiryDTO    `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// NewInquiryDTO maps the model to its API shape.
func NewInquiryDTO(inquiry *models.Inquiry) *InquiryDTO {
	if inquiry == nil {
		return nil
	}

	replies := make([]InquiryReplyDTO, 0, len(inquiry.Replies))
	for _, reply := range inquiry.Replies {
		replies = append(replies, InquiryReplyDTO{
			ID:        reply.ID,
			Message:   reply.Message,
			RepliedAt: reply.RepliedAt,
		})
	}

	return &InquiryDTO{
		ID:            inquiry.ID,
		CustomerName:  inquiry.CustomerName,
		CustomerEmail: inquiry.CustomerEmail,
		CustomerPhone: inquiry.CustomerPhone,
		CompanyName:   inquiry.CompanyName,
		City:          inquiry.City,
		Purpose:       inquiry.Purpose,
		Source:        inquiry.Source,
		Message:       inquiry.Message,
		Consent:       inquiry.Consent,
		ProductID:     inquiry.ProductID,
		Status:        inquiry.Status,
		Replies:       replies,
		CreatedAt:     inquiry.CreatedAt,
		UpdatedAt:     inquiry.UpdatedAt,
	}
}
