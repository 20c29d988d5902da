package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// Service exposes quote request intake and follow-up operations.
type Service interface {
	SubmitQuote(ctx context.Context, input SubmitQuoteInput) (*QuoteDTO, error)
	GetQuote(ctx context.Context, quoteID uuid.UUID) (*QuoteDTO, error)
	ListQuotes(ctx context.Context, filters ListFilters, params pagination.Params) (*QuoteListResult, error)
	UpdateStatus(ctx context.Context, quoteID uuid.UUID, status enums.QuoteStatus) (*QuoteDTO, error)
	Reply(ctx context.Context, quoteID uuid.UUID, message string) (*QuoteDTO, error)
}

// SubmitQuoteInput holds the validated public submission payload.
type SubmitQuoteInput struct {
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	City             string
	SelectedProducts []string
	Message          *string
}

type quoteStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	Create(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.QuoteStatus) error
	AddReply(ctx context.Context, reply *models.QuoteReply) (*models.QuoteReply, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Quote, int64, error)
}

type service struct {
	repo quoteStore
}

// NewService constructs a quote service instance.
func NewService(repo quoteStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) SubmitQuote(ctx context.Context, input SubmitQuoteInput) (*QuoteDTO, error) {
	if len(input.SelectedProducts) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product line is required")
	}
	seen := make(map[string]struct{}, len(input.SelectedProducts))
	selected := make([]string, 0, len(input.SelectedProducts))
	for _, raw := range input.SelectedProducts {
		product, err := enums.ParseQuoteProduct(strings.TrimSpace(raw))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product line").
				WithDetails(map[string]any{"product": raw})
		}
		if _, dup := seen[product.String()]; dup {
			continue
		}
		seen[product.String()] = struct{}{}
		selected = append(selected, product.String())
	}

	quote := &models.Quote{
		CustomerName:     strings.TrimSpace(input.CustomerName),
		CustomerEmail:    strings.TrimSpace(input.CustomerEmail),
		CustomerPhone:    strings.TrimSpace(input.CustomerPhone),
		City:             strings.TrimSpace(input.City),
		SelectedProducts: selected,
		Message:          input.Message,
		Status:           enums.QuoteStatusNew,
	}

	created, err := s.repo.Create(ctx, quote)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create quote")
	}
	return NewQuoteDTO(created), nil
}

func (s *service) GetQuote(ctx context.Context, quoteID uuid.UUID) (*QuoteDTO, error) {
	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return NewQuoteDTO(quote), nil
}

func (s *service) ListQuotes(ctx context.Context, filters ListFilters, params pagination.Params) (*QuoteListResult, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}
	items := make([]QuoteDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewQuoteDTO(&rows[i]))
	}
	return &QuoteListResult{Items: items, Meta: pagination.MetaFor(params, total)}, nil
}

func (s *service) UpdateStatus(ctx context.Context, quoteID uuid.UUID, status enums.QuoteStatus) (*QuoteDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid quote status")
	}
	if err := s.repo.UpdateStatus(ctx, quoteID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update quote status")
	}
	return s.GetQuote(ctx, quoteID)
}

// Reply appends a staff response and moves a fresh quote to in_progress.
func (s *service) Reply(ctx context.Context, quoteID uuid.UUID, message string) (*QuoteDTO, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reply message is required")
	}

	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AddReply(ctx, &models.QuoteReply{
		QuoteID: quoteID,
		Message: message,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add quote reply")
	}

	if quote.Status == enums.QuoteStatusNew {
		if err := s.repo.UpdateStatus(ctx, quoteID, enums.QuoteStatusInProgress); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update quote status")
		}
	}
	return s.GetQuote(ctx, quoteID)
}

func (s *service) loadQuote(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.repo.FindByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return quote, nil
}
