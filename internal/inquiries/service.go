package inquiries

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

// Service exposes inquiry intake and follow-up operations.
type Service interface {
	SubmitInquiry(ctx context.Context, input SubmitInquiryInput) (*InquiryDTO, error)
	GetInquiry(ctx context.Context, inquiryID uuid.UUID) (*InquiryDTO, error)
	ListInquiries(ctx context.Context, filters ListFilters, params pagination.Params) (*InquiryListResult, error)
	UpdateStatus(ctx context.Context, inquiryID uuid.UUID, status enums.InquiryStatus) (*InquiryDTO, error)
	Reply(ctx context.Context, inquiryID uuid.UUID, message string) (*InquiryDTO, error)
}

// SubmitInquiryInput holds the validated public submission payload.
type SubmitInquiryInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	CompanyName   *string
	City          string
	Purpose       enums.InquiryPurpose
	Source        *enums.InquirySource
	Message       string
	Consent       bool
	ProductID     *uuid.UUID
}

type inquiryStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	Create(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InquiryStatus) error
	AddReply(ctx context.Context, reply *models.InquiryReply) (*models.InquiryReply, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Inquiry, int64, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     inquiryStore
	products productLoader
}

// NewService constructs an inquiry service instance.
func NewService(repo inquiryStore, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inquiry repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) SubmitInquiry(ctx context.Context, input SubmitInquiryInput) (*InquiryDTO, error) {
	if !input.Consent {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consent is required")
	}
	if !input.Purpose.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inquiry purpose")
	}
	if input.Source != nil && !input.Source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inquiry source")
	}
	if input.ProductID != nil {
		if _, err := s.products.FindByID(ctx, *input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
	}

	inquiry := &models.Inquiry{
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		CompanyName:   input.CompanyName,
		City:          strings.TrimSpace(input.City),
		Purpose:       input.Purpose,
		Source:        input.Source,
		Message:       strings.TrimSpace(input.Message),
		Consent:       input.Consent,
		ProductID:     input.ProductID,
		Status:        enums.InquiryStatusNew,
	}

	created, err := s.repo.Create(ctx, inquiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create inquiry")
	}
	return NewInquiryDTO(created), nil
}

func (s *service) GetInquiry(ctx context.Context, inquiryID uuid.UUID) (*InquiryDTO, error) {
	inquiry, err := s.loadInquiry(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	return NewInquiryDTO(inquiry), nil
}

func (s *service) ListInquiries(ctx context.Context, filters ListFilters, params pagination.Params) (*InquiryListResult, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inquiries")
	}
	items := make([]InquiryDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewInquiryDTO(&rows[i]))
	}
	return &InquiryListResult{Items: items, Meta: pagination.MetaFor(params, total)}, nil
}

func (s *service) UpdateStatus(ctx context.Context, inquiryID uuid.UUID, status enums.InquiryStatus) (*InquiryDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inquiry status")
	}
	if err := s.repo.UpdateStatus(ctx, inquiryID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inquiry status")
	}
	return s.GetInquiry(ctx, inquiryID)
}

// Reply appends a staff response and moves a fresh inquiry to in_progress.
func (s *service) Reply(ctx context.Context, inquiryID uuid.UUID, message string) (*InquiryDTO, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reply message is required")
	}

	inquiry, err := s.loadInquiry(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AddReply(ctx, &models.InquiryReply{
		InquiryID: inquiryID,
		Message:   message,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add inquiry reply")
	}

	if inquiry.Status == enums.InquiryStatusNew {
		if err := s.repo.UpdateStatus(ctx, inquiryID, enums.InquiryStatusInProgress); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inquiry status")
		}
	}
	return s.GetInquiry(ctx, inquiryID)
}

func (s *service) loadInquiry(ctx context.Context, inquiryID uuid.UUID) (*models.Inquiry, error) {
	inquiry, err := s.repo.FindByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inquiry")
	}
	return inquiry, nil
}
