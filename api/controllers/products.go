package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/api/responses"
	"github.com/geosynthix/catalog-backend/api/validators"
	productsvc "github.com/geosynthix/catalog-backend/internal/products"
	"github.com/geosynthix/catalog-backend/pkg/config"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// CreateProduct handles the multipart product creation request.
func CreateProduct(svc productsvc.Service, uploads config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := validators.ParseMultipart(r, uploads.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := createProductInputFromForm(form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct handles the multipart product mutation request with ordered
// gallery instructions.
func UpdateProduct(svc productsvc.Service, uploads config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		form, err := validators.ParseMultipart(r, uploads.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := updateProductInputFromForm(form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// GetProduct resolves a product by id or slug.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProduct(r.Context(), chi.URLParam(r, "idOrSlug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns one filtered page of products.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filters := productsvc.ListFilters{}
		if raw := query.Get("isActive"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid isActive filter"))
				return
			}
			filters.IsActive = &active
		}
		if raw := query.Get("natureId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid natureId filter"))
				return
			}
			filters.NatureID = &id
		}
		if raw := query.Get("plantId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plantId filter"))
				return
			}
			filters.PlantID = &id
		}

		result, err := svc.ListProducts(r.Context(), filters, pagination.FromQuery(query))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SoftDeleteProduct hides a product from the public catalog.
func SoftDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		if err := svc.SoftDeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// PermanentDeleteProduct removes the record and retires its assets.
func PermanentDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		if err := svc.PermanentDeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ToggleProductStatus flips the active flag.
func ToggleProductStatus(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		product, err := svc.ToggleStatus(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductForm struct {
	Name        string `validate:"required,max=200"`
	Slug        string `validate:"required,max=200"`
	NatureID    string `validate:"required,uuid"`
	PlantID     string `validate:"required,uuid"`
	Description string `validate:"required"`
}

func createProductInputFromForm(form *multipart.Form) (*productsvc.CreateProductInput, error) {
	payload := createProductForm{
		Name:        validators.FormValue(form, "name"),
		Slug:        validators.FormValue(form, "slug"),
		NatureID:    validators.FormValue(form, "natureId"),
		PlantID:     validators.FormValue(form, "plantId"),
		Description: validators.FormValue(form, "description"),
	}
	if err := validators.ValidateStruct(payload); err != nil {
		return nil, err
	}

	natureID, _ := uuid.Parse(payload.NatureID)
	plantID, _ := uuid.Parse(payload.PlantID)

	status := enums.ProductStatusInStock
	if raw := validators.FormValue(form, "status"); raw != "" {
		parsed, err := enums.ParseProductStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product status")
		}
		status = parsed
	}

	input := &productsvc.CreateProductInput{
		Name:              payload.Name,
		Abbreviation:      optionalFormValue(form, "abbreviation"),
		Slug:              payload.Slug,
		NatureID:          natureID,
		PlantID:           plantID,
		Description:       payload.Description,
		ShortDescription:  optionalFormValue(form, "shortDescription"),
		Status:            status,
		SEOTitle:          optionalFormValue(form, "seoTitle"),
		SEODescription:    optionalFormValue(form, "seoDescription"),
		SEOKeywords:       formValueList(form, "seoKeywords"),
		Applications:      formValueList(form, "applications"),
		PlantAvailability: formValueList(form, "plantAvailability"),
		Specifications:    specificationsFromForm(form),
	}

	for i, header := range form.File["images"] {
		file := fileFromHeader(header)
		input.Images = append(input.Images, productsvc.NewImageInput{
			File: productsvc.FileInput{
				Filename:    file.Filename,
				ContentType: file.ContentType,
				Open:        file.Open,
			},
			Alt:       validators.FormValue(form, fmt.Sprintf("images[%d].alt", i)),
			IsPrimary: validators.FormValueBool(form, fmt.Sprintf("images[%d].isPrimary", i)),
		})
	}

	brochure, err := productDocumentFromForm(form, "brochure", "brochureTitle")
	if err != nil {
		return nil, err
	}
	input.Brochure = brochure

	tds, err := productDocumentFromForm(form, "tds", "tdsTitle")
	if err != nil {
		return nil, err
	}
	input.TDS = tds

	return input, nil
}

func updateProductInputFromForm(form *multipart.Form) (*productsvc.UpdateProductInput, error) {
	input := &productsvc.UpdateProductInput{
		Name:             optionalFormValue(form, "name"),
		Abbreviation:     optionalFormValue(form, "abbreviation"),
		Slug:             optionalFormValue(form, "slug"),
		Description:      optionalFormValue(form, "description"),
		ShortDescription: optionalFormValue(form, "shortDescription"),
		SEOTitle:         optionalFormValue(form, "seoTitle"),
		SEODescription:   optionalFormValue(form, "seoDescription"),
	}

	if raw := optionalFormValue(form, "natureId"); raw != nil {
		id, err := uuid.Parse(*raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid natureId")
		}
		input.NatureID = &id
	}
	if raw := optionalFormValue(form, "plantId"); raw != nil {
		id, err := uuid.Parse(*raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plantId")
		}
		input.PlantID = &id
	}
	if raw := optionalFormValue(form, "status"); raw != nil {
		parsed, err := enums.ParseProductStatus(*raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product status")
		}
		input.Status = &parsed
	}
	if list, ok := optionalFormValueList(form, "seoKeywords"); ok {
		input.SEOKeywords = list
	}
	if list, ok := optionalFormValueList(form, "applications"); ok {
		input.Applications = list
	}
	if list, ok := optionalFormValueList(form, "plantAvailability"); ok {
		input.PlantAvailability = list
	}
	if _, ok := form.Value["specifications[0].key"]; ok {
		specs := specificationsFromForm(form)
		input.Specifications = &specs
	}

	// Ordered gallery instructions: images[i].url keeps an existing image,
	// images[i].file replaces it with an upload.
	for i := 0; ; i++ {
		urlKey := fmt.Sprintf("images[%d].url", i)
		fileKey := fmt.Sprintf("images[%d].file", i)

		keepURL := validators.FormValue(form, urlKey)
		fileHeader := validators.FormFile(form, fileKey)
		if keepURL == "" && fileHeader == nil {
			break
		}

		instruction := productsvc.UpdateImageInput{
			KeepURL:   keepURL,
			Alt:       validators.FormValue(form, fmt.Sprintf("images[%d].alt", i)),
			IsPrimary: validators.FormValueBool(form, fmt.Sprintf("images[%d].isPrimary", i)),
		}
		if fileHeader != nil {
			file := fileFromHeader(fileHeader)
			instruction.KeepURL = ""
			instruction.File = &productsvc.FileInput{
				Filename:    file.Filename,
				ContentType: file.ContentType,
				Open:        file.Open,
			}
		}
		input.Images = append(input.Images, instruction)
	}

	brochure, err := productDocumentFromForm(form, "brochure", "brochureTitle")
	if err != nil {
		return nil, err
	}
	input.Brochure = brochure

	tds, err := productDocumentFromForm(form, "tds", "tdsTitle")
	if err != nil {
		return nil, err
	}
	input.TDS = tds

	return input, nil
}

func productDocumentFromForm(form *multipart.Form, fileKey, titleKey string) (*productsvc.DocumentInput, error) {
	header := validators.FormFile(form, fileKey)
	if header == nil {
		return nil, nil
	}
	title := validators.FormValue(form, titleKey)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is required when uploading a %s", titleKey, fileKey))
	}
	file := fileFromHeader(header)
	return &productsvc.DocumentInput{
		Title: title,
		File: productsvc.FileInput{
			Filename:    file.Filename,
			ContentType: file.ContentType,
			Open:        file.Open,
		},
	}, nil
}

func specificationsFromForm(form *multipart.Form) []productsvc.SpecificationInput {
	var specs []productsvc.SpecificationInput
	for i := 0; ; i++ {
		key := validators.FormValue(form, fmt.Sprintf("specifications[%d].key", i))
		if key == "" {
			break
		}
		specs = append(specs, productsvc.SpecificationInput{
			Key:   key,
			Value: strings.TrimSpace(validators.FormValue(form, fmt.Sprintf("specifications[%d].value", i))),
		})
	}
	return specs
}
