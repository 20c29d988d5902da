package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/api/responses"
	"github.com/geosynthix/catalog-backend/api/validators"
	documentsvc "github.com/geosynthix/catalog-backend/internal/documents"
	"github.com/geosynthix/catalog-backend/pkg/config"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// CreateDocument handles the multipart standalone document upload.
func CreateDocument(svc documentsvc.Service, uploads config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := validators.ParseMultipart(r, uploads.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := createDocumentForm{
			Title: validators.FormValue(form, "title"),
			Type:  validators.FormValue(form, "type"),
		}
		if err := validators.ValidateStruct(payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		docType, err := enums.ParseDocumentType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document type"))
			return
		}

		input := documentsvc.CreateDocumentInput{
			Title: payload.Title,
			Type:  docType,
		}
		if raw := optionalFormValue(form, "productId"); raw != nil && *raw != "" {
			productID, err := uuid.Parse(*raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid productId"))
				return
			}
			input.ProductID = &productID
		}

		header := validators.FormFile(form, "file")
		if header == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "a document file is required"))
			return
		}
		file := fileFromHeader(header)
		input.File = documentsvc.FileInput{
			Filename:    file.Filename,
			ContentType: file.ContentType,
			Open:        file.Open,
		}

		document, err := svc.CreateDocument(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, document)
	}
}

// GetDocument returns a single document record.
func GetDocument(svc documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		documentID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document id"))
			return
		}
		document, err := svc.GetDocument(r.Context(), documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, document)
	}
}

// ListDocuments returns one filtered page of documents.
func ListDocuments(svc documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filters := documentsvc.ListFilters{}
		if raw := query.Get("type"); raw != "" {
			docType, err := enums.ParseDocumentType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter"))
				return
			}
			filters.Type = &docType
		}
		if raw := query.Get("productId"); raw != "" {
			productID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid productId filter"))
				return
			}
			filters.ProductID = &productID
		}

		result, err := svc.ListDocuments(r.Context(), filters, pagination.FromQuery(query))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DeleteDocument removes the record, then retires the stored file.
func DeleteDocument(svc documentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		documentID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document id"))
			return
		}
		if err := svc.DeleteDocument(r.Context(), documentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createDocumentForm struct {
	Title string `validate:"required,max=300"`
	Type  string `validate:"required"`
}
