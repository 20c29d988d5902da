package inquiries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

type fakeInquiryStore struct {
	inquiries map[uuid.UUID]*models.Inquiry
	createErr error
}

func newFakeInquiryStore() *fakeInquiryStore {
	return &fakeInquiryStore{inquiries: make(map[uuid.UUID]*models.Inquiry)}
}

func (f *fakeInquiryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Inquiry, error) {
	inquiry, ok := f.inquiries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *inquiry
	return &clone, nil
}

func (f *fakeInquiryStore) Create(_ context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if inquiry.ID == uuid.Nil {
		inquiry.ID = uuid.New()
	}
	clone := *inquiry
	f.inquiries[inquiry.ID] = &clone
	return inquiry, nil
}

func (f *fakeInquiryStore) UpdateStatus(_ context.Context, id uuid.UUID, status enums.InquiryStatus) error {
	inquiry, ok := f.inquiries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inquiry.Status = status
	return nil
}

func (f *fakeInquiryStore) AddReply(_ context.Context, reply *models.InquiryReply) (*models.InquiryReply, error) {
	inquiry, ok := f.inquiries[reply.InquiryID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if reply.ID == uuid.Nil {
		reply.ID = uuid.New()
	}
	inquiry.Replies = append(inquiry.Replies, *reply)
	return reply, nil
}

func (f *fakeInquiryStore) List(_ context.Context, filters ListFilters, _ pagination.Params) ([]models.Inquiry, int64, error) {
	rows := make([]models.Inquiry, 0, len(f.inquiries))
	for _, inquiry := range f.inquiries {
		if filters.Status != nil && inquiry.Status != *filters.Status {
			continue
		}
		rows = append(rows, *inquiry)
	}
	return rows, int64(len(rows)), nil
}

type fakeProductLoader struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProductLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func newInquiryService(t *testing.T, store *fakeInquiryStore, products *fakeProductLoader) Service {
	t.Helper()
	if products == nil {
		products = &fakeProductLoader{products: map[uuid.UUID]*models.Product{}}
	}
	svc, err := NewService(store, products)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func validSubmission() SubmitInquiryInput {
	return SubmitInquiryInput{
		CustomerName:  "Asha Patel",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "+91 98765 43210",
		City:          "Surat",
		Purpose:       enums.InquiryPurposePricing,
		Message:       "Looking for bulk pricing.",
		Consent:       true,
	}
}

func TestSubmitInquiry(t *testing.T) {
	store := newFakeInquiryStore()
	svc := newInquiryService(t, store, nil)

	dto, err := svc.SubmitInquiry(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("SubmitInquiry: %v", err)
	}
	if dto.Status != enums.InquiryStatusNew {
		t.Errorf("status = %s, want new", dto.Status)
	}
}

func TestSubmitInquiryRequiresConsent(t *testing.T) {
	store := newFakeInquiryStore()
	svc := newInquiryService(t, store, nil)

	input := validSubmission()
	input.Consent = false
	_, err := svc.SubmitInquiry(context.Background(), input)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitInquiryUnknownProduct(t *testing.T) {
	store := newFakeInquiryStore()
	svc := newInquiryService(t, store, nil)

	productID := uuid.New()
	input := validSubmission()
	input.ProductID = &productID
	_, err := svc.SubmitInquiry(context.Background(), input)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestReplyMovesNewInquiryToInProgress(t *testing.T) {
	store := newFakeInquiryStore()
	svc := newInquiryService(t, store, nil)

	created, err := svc.SubmitInquiry(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("SubmitInquiry: %v", err)
	}

	dto, err := svc.Reply(context.Background(), created.ID, "We will get back to you with rates.")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if dto.Status != enums.InquiryStatusInProgress {
		t.Errorf("status = %s, want in_progress", dto.Status)
	}
	if len(dto.Replies) != 1 {
		t.Errorf("expected 1 reply, got %d", len(dto.Replies))
	}
}

func TestReplyRequiresMessage(t *testing.T) {
	store := newFakeInquiryStore()
	svc := newInquiryService(t, store, nil)

	_, err := svc.Reply(context.Background(), uuid.New(), "   ")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	store := newFakeInquiryStore()
	svc := newInquiryService(t, store, nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), enums.InquiryStatus("archived"))
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateStatusMissingInquiry(t *testing.T) {
	store := newFakeInquiryStore()
	svc := newInquiryService(t, store, nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), enums.InquiryStatusClosed)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected a typed error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("error code = %s, want %s", typed.Code(), want)
	}
}
