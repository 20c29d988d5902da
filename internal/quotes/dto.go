package quotes

import (
	"time"

	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// QuoteDTO is the API representation of a quote request.
type QuoteDTO struct {
	ID               uuid.UUID         `json:"id"`
	CustomerName     string            `json:"customerName"`
	CustomerEmail    string            `json:"customerEmail"`
	CustomerPhone    string            `json:"customerPhone"`
	City             string            `json:"city"`
	SelectedProducts []string          `json:"selectedProducts"`
	Message          *string           `json:"message,omitempty"`
	Status           enums.QuoteStatus `json:"status"`
	Replies          []QuoteReplyDTO   `json:"replies"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// QuoteReplyDTO is one staff response.
type QuoteReplyDTO struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	RepliedAt time.Time `json:"repliedAt"`
}

// QuoteListResult is one page of quotes.
type QuoteListResult struct {
	Items []QuoteDTO      `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// NewQuoteDTO maps the model to its API shape.
func NewQuoteDTO(quote *models.Quote) *QuoteDTO {
	if quote == nil {
		return nil
	}

	replies := make([]QuoteReplyDTO, 0, len(quote.Replies))
	for _, reply := range quote.Replies {
		replies = append(replies, QuoteReplyDTO{
			ID:        reply.ID,
			Message:   reply.Message,
			RepliedAt: reply.RepliedAt,
		})
	}

	return &QuoteDTO{
		ID:               quote.ID,
		CustomerName:     quote.CustomerName,
		CustomerEmail:    quote.CustomerEmail,
		CustomerPhone:    quote.CustomerPhone,
		City:             quote.City,
		SelectedProducts: quote.SelectedProducts,
		Message:          quote.Message,
		Status:           quote.Status,
		Replies:          replies,
		CreatedAt:        quote.CreatedAt,
		UpdatedAt:        quote.UpdatedAt,
	}
}
