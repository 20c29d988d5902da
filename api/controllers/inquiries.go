package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/api/responses"
	"github.com/geosynthix/catalog-backend/api/validators"
	inquirysvc "github.com/geosynthix/catalog-backend/internal/inquiries"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// SubmitInquiry handles the public inquiry submission.
func SubmitInquiry(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload submitInquiryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inquiry, err := svc.SubmitInquiry(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, inquiry)
	}
}

// GetInquiry returns a single inquiry with its reply thread.
func GetInquiry(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inquiryID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inquiry id"))
			return
		}
		inquiry, err := svc.GetInquiry(r.Context(), inquiryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inquiry)
	}
}

// ListInquiries returns one filtered page of inquiries.
func ListInquiries(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filters := inquirysvc.ListFilters{}
		if raw := query.Get("status"); raw != "" {
			status, err := enums.ParseInquiryStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if raw := query.Get("purpose"); raw != "" {
			purpose, err := enums.ParseInquiryPurpose(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purpose filter"))
				return
			}
			filters.Purpose = &purpose
		}
		if raw := query.Get("productId"); raw != "" {
			productID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid productId filter"))
				return
			}
			filters.ProductID = &productID
		}

		result, err := svc.ListInquiries(r.Context(), filters, pagination.FromQuery(query))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// UpdateInquiryStatus moves an inquiry through its workflow.
func UpdateInquiryStatus(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inquiryID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inquiry id"))
			return
		}

		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseInquiryStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		inquiry, err := svc.UpdateStatus(r.Context(), inquiryID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inquiry)
	}
}

// ReplyToInquiry appends an admin reply to the thread.
func ReplyToInquiry(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inquiryID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inquiry id"))
			return
		}

		var payload replyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inquiry, err := svc.Reply(r.Context(), inquiryID, payload.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inquiry)
	}
}

type submitInquiryRequest struct {
	CustomerName  string  `json:"customerName" validate:"required,max=200"`
	CustomerEmail string  `json:"customerEmail" validate:"required,email"`
	CustomerPhone string  `json:"customerPhone" validate:"required,max=30"`
	CompanyName   *string `json:"companyName,omitempty"`
	City          string  `json:"city" validate:"required,max=120"`
	Purpose       string  `json:"purpose" validate:"required"`
	Source        *string `json:"source,omitempty"`
	Message       string  `json:"message" validate:"required"`
	Consent       bool    `json:"consent"`
	ProductID     *string `json:"productId,omitempty"`
}

func (req submitInquiryRequest) toInput() (*inquirysvc.SubmitInquiryInput, error) {
	purpose, err := enums.ParseInquiryPurpose(req.Purpose)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purpose")
	}

	input := &inquirysvc.SubmitInquiryInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		CompanyName:   req.CompanyName,
		City:          req.City,
		Purpose:       purpose,
		Message:       req.Message,
		Consent:       req.Consent,
	}
	if req.Source != nil && *req.Source != "" {
		source, err := enums.ParseInquirySource(*req.Source)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source")
		}
		input.Source = &source
	}
	if req.ProductID != nil && *req.ProductID != "" {
		productID, err := uuid.Parse(*req.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid productId")
		}
		input.ProductID = &productID
	}
	return input, nil
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type replyRequest struct {
	Message string `json:"message" validate:"required"`
}
