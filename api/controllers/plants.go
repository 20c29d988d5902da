package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/api/responses"
	"github.com/geosynthix/catalog-backend/api/validators"
	plantsvc "github.com/geosynthix/catalog-backend/internal/plants"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// CreatePlant handles plant creation.
func CreatePlant(svc plantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPlantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plant, err := svc.CreatePlant(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, plant)
	}
}

// UpdatePlant handles partial plant mutation.
func UpdatePlant(svc plantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plantID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plant id"))
			return
		}

		var payload updatePlantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plant, err := svc.UpdatePlant(r.Context(), plantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plant)
	}
}

// GetPlant resolves a plant by id or slug.
func GetPlant(svc plantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plant, err := svc.GetPlant(r.Context(), chi.URLParam(r, "idOrSlug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plant)
	}
}

// ListPlants returns one filtered page of plants.
func ListPlants(svc plantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filters := plantsvc.ListFilters{}
		if raw := query.Get("isActive"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid isActive filter"))
				return
			}
			filters.IsActive = &active
		}

		result, err := svc.ListPlants(r.Context(), filters, pagination.FromQuery(query))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SoftDeletePlant deactivates a plant after the dependent check.
func SoftDeletePlant(svc plantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plantID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plant id"))
			return
		}
		if err := svc.SoftDeletePlant(r.Context(), plantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// TogglePlantStatus flips the active flag.
func TogglePlantStatus(svc plantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plantID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plant id"))
			return
		}
		plant, err := svc.ToggleStatus(r.Context(), plantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plant)
	}
}

type createPlantRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Slug           string   `json:"slug" validate:"required,max=200"`
	Description    string   `json:"description" validate:"required"`
	Capacity       *string  `json:"capacity,omitempty"`
	Location       string   `json:"location" validate:"required"`
	Established    *string  `json:"established,omitempty"`
	Machinery      []string `json:"machinery,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	SEOTitle       *string  `json:"seoTitle,omitempty"`
	SEODescription *string  `json:"seoDescription,omitempty"`
	SEOKeywords    []string `json:"seoKeywords,omitempty"`
}

func (r createPlantRequest) toInput() (plantsvc.CreatePlantInput, error) {
	established, err := parseDate(r.Established)
	if err != nil {
		return plantsvc.CreatePlantInput{}, err
	}
	return plantsvc.CreatePlantInput{
		Name:           r.Name,
		Slug:           r.Slug,
		Description:    r.Description,
		Capacity:       r.Capacity,
		Location:       r.Location,
		Established:    established,
		Machinery:      r.Machinery,
		Certifications: r.Certifications,
		SEOTitle:       r.SEOTitle,
		SEODescription: r.SEODescription,
		SEOKeywords:    r.SEOKeywords,
	}, nil
}

type updatePlantRequest struct {
	Name           *string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Slug           *string   `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description    *string   `json:"description,omitempty"`
	Capacity       *string   `json:"capacity,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Established    *string   `json:"established,omitempty"`
	Machinery      *[]string `json:"machinery,omitempty"`
	Certifications *[]string `json:"certifications,omitempty"`
	SEOTitle       *string   `json:"seoTitle,omitempty"`
	SEODescription *string   `json:"seoDescription,omitempty"`
	SEOKeywords    *[]string `json:"seoKeywords,omitempty"`
}

func (r updatePlantRequest) toInput() (plantsvc.UpdatePlantInput, error) {
	established, err := parseDate(r.Established)
	if err != nil {
		return plantsvc.UpdatePlantInput{}, err
	}
	return plantsvc.UpdatePlantInput{
		Name:           r.Name,
		Slug:           r.Slug,
		Description:    r.Description,
		Capacity:       r.Capacity,
		Location:       r.Location,
		Established:    established,
		Machinery:      r.Machinery,
		Certifications: r.Certifications,
		SEOTitle:       r.SEOTitle,
		SEODescription: r.SEODescription,
		SEOKeywords:    r.SEOKeywords,
	}, nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "dates must be YYYY-MM-DD")
	}
	return &parsed, nil
}
