package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/api/responses"
	"github.com/geosynthix/catalog-backend/api/validators"
	naturesvc "github.com/geosynthix/catalog-backend/internal/natures"
	"github.com/geosynthix/catalog-backend/pkg/config"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// CreateNature handles the multipart nature creation request.
func CreateNature(svc naturesvc.Service, uploads config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := validators.ParseMultipart(r, uploads.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := createNatureInputFromForm(form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nature, err := svc.CreateNature(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, nature)
	}
}

// UpdateNature handles the multipart nature mutation request. Sending an
// "image" file replaces the category image.
func UpdateNature(svc naturesvc.Service, uploads config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		natureID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid nature id"))
			return
		}

		form, err := validators.ParseMultipart(r, uploads.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := updateNatureInputFromForm(form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nature, err := svc.UpdateNature(r.Context(), natureID, *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nature)
	}
}

// GetNature resolves a nature by id or slug.
func GetNature(svc naturesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nature, err := svc.GetNature(r.Context(), chi.URLParam(r, "idOrSlug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nature)
	}
}

// ListNatures returns one filtered page of natures.
func ListNatures(svc naturesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filters := naturesvc.ListFilters{}
		if raw := query.Get("isActive"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid isActive filter"))
				return
			}
			filters.IsActive = &active
		}
		if raw := query.Get("plantId"); raw != "" {
			plantID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plantId filter"))
				return
			}
			filters.PlantID = &plantID
		}

		result, err := svc.ListNatures(r.Context(), filters, pagination.FromQuery(query))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SoftDeleteNature deactivates a nature after the dependent check.
func SoftDeleteNature(svc naturesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		natureID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid nature id"))
			return
		}
		if err := svc.SoftDeleteNature(r.Context(), natureID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// ToggleNatureStatus flips the active flag.
func ToggleNatureStatus(svc naturesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		natureID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid nature id"))
			return
		}
		nature, err := svc.ToggleStatus(r.Context(), natureID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nature)
	}
}

type createNatureForm struct {
	Name        string `validate:"required,max=200"`
	Slug        string `validate:"required,max=200"`
	PlantID     string `validate:"required,uuid"`
	Description string `validate:"required"`
}

func createNatureInputFromForm(form *multipart.Form) (*naturesvc.CreateNatureInput, error) {
	payload := createNatureForm{
		Name:        validators.FormValue(form, "name"),
		Slug:        validators.FormValue(form, "slug"),
		PlantID:     validators.FormValue(form, "plantId"),
		Description: validators.FormValue(form, "description"),
	}
	if err := validators.ValidateStruct(payload); err != nil {
		return nil, err
	}
	plantID, _ := uuid.Parse(payload.PlantID)

	input := &naturesvc.CreateNatureInput{
		Name:              payload.Name,
		Slug:              payload.Slug,
		PlantID:           plantID,
		Description:       payload.Description,
		TechnicalOverview: optionalFormValue(form, "technicalOverview"),
		Applications:      optionalFormValue(form, "applications"),
		KeyFeatures:       optionalFormValue(form, "keyFeatures"),
		RelatedIndustries: formValueList(form, "relatedIndustries"),
		SEOTitle:          optionalFormValue(form, "seoTitle"),
		SEODescription:    optionalFormValue(form, "seoDescription"),
		SEOKeywords:       formValueList(form, "seoKeywords"),
	}
	if header := validators.FormFile(form, "image"); header != nil {
		input.Image = natureFileInput(header)
	}
	return input, nil
}

func updateNatureInputFromForm(form *multipart.Form) (*naturesvc.UpdateNatureInput, error) {
	input := &naturesvc.UpdateNatureInput{
		Name:              optionalFormValue(form, "name"),
		Slug:              optionalFormValue(form, "slug"),
		Description:       optionalFormValue(form, "description"),
		TechnicalOverview: optionalFormValue(form, "technicalOverview"),
		Applications:      optionalFormValue(form, "applications"),
		KeyFeatures:       optionalFormValue(form, "keyFeatures"),
		SEOTitle:          optionalFormValue(form, "seoTitle"),
		SEODescription:    optionalFormValue(form, "seoDescription"),
	}

	if raw := optionalFormValue(form, "plantId"); raw != nil {
		plantID, err := uuid.Parse(*raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plantId")
		}
		input.PlantID = &plantID
	}
	if list, ok := optionalFormValueList(form, "relatedIndustries"); ok {
		input.RelatedIndustries = list
	}
	if list, ok := optionalFormValueList(form, "seoKeywords"); ok {
		input.SEOKeywords = list
	}
	if header := validators.FormFile(form, "image"); header != nil {
		input.Image = natureFileInput(header)
	}
	return input, nil
}

func natureFileInput(header *multipart.FileHeader) *naturesvc.FileInput {
	file := fileFromHeader(header)
	return &naturesvc.FileInput{
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Open:        file.Open,
	}
}
