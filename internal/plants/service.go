package plants

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db"
	"github.com/geosynthix/catalog-backend/pkg/db/models"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

// Service exposes manufacturing plant management operations.
type Service interface {
	CreatePlant(ctx context.Context, input CreatePlantInput) (*PlantDTO, error)
	UpdatePlant(ctx context.Context, plantID uuid.UUID, input UpdatePlantInput) (*PlantDTO, error)
	GetPlant(ctx context.Context, idOrSlug string) (*PlantDTO, error)
	ListPlants(ctx context.Context, filters ListFilters, params pagination.Params) (*PlantListResult, error)
	SoftDeletePlant(ctx context.Context, plantID uuid.UUID) error
	ToggleStatus(ctx context.Context, plantID uuid.UUID) (*PlantDTO, error)
}

// CreatePlantInput holds the validated payload to create a plant.
type CreatePlantInput struct {
	Name           string
	Slug           string
	Description    string
	Capacity       *string
	Location       string
	Established    *time.Time
	Machinery      []string
	Certifications []string
	SEOTitle       *string
	SEODescription *string
	SEOKeywords    []string
}

// UpdatePlantInput holds optional mutation values for a plant.
type UpdatePlantInput struct {
	Name           *string
	Slug           *string
	Description    *string
	Capacity       *string
	Location       *string
	Established    *time.Time
	Machinery      *[]string
	Certifications *[]string
	SEOTitle       *string
	SEODescription *string
	SEOKeywords    *[]string
}

type plantStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Plant, error)
	FindByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Plant, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Plant, int64, error)
	Create(ctx context.Context, plant *models.Plant) (*models.Plant, error)
	Update(ctx context.Context, plant *models.Plant) (*models.Plant, error)
	CountActiveNatures(ctx context.Context, plantID uuid.UUID) (int64, error)
	CountActiveProducts(ctx context.Context, plantID uuid.UUID) (int64, error)
}

type service struct {
	repo plantStore
	logg *logger.Logger
}

// NewService constructs a plant service instance.
func NewService(repo plantStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("plant repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) CreatePlant(ctx context.Context, input CreatePlantInput) (*PlantDTO, error) {
	plant := &models.Plant{
		Name:           strings.TrimSpace(input.Name),
		Slug:           strings.TrimSpace(input.Slug),
		Description:    input.Description,
		Capacity:       input.Capacity,
		Location:       input.Location,
		Established:    input.Established,
		Machinery:      input.Machinery,
		Certifications: input.Certifications,
		IsActive:       true,
		SEOTitle:       input.SEOTitle,
		SEODescription: input.SEODescription,
		SEOKeywords:    input.SEOKeywords,
	}

	created, err := s.repo.Create(ctx, plant)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a plant with this name or slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create plant")
	}
	return NewPlantDTO(created), nil
}

func (s *service) UpdatePlant(ctx context.Context, plantID uuid.UUID, input UpdatePlantInput) (*PlantDTO, error) {
	plant, err := s.loadPlant(ctx, plantID)
	if err != nil {
		return nil, err
	}

	applyPlantUpdate(plant, input)

	updated, err := s.repo.Update(ctx, plant)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a plant with this name or slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update plant")
	}
	return NewPlantDTO(updated), nil
}

func (s *service) GetPlant(ctx context.Context, idOrSlug string) (*PlantDTO, error) {
	plant, err := s.repo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plant")
	}
	if !plant.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plant not found")
	}
	return NewPlantDTO(plant), nil
}

func (s *service) ListPlants(ctx context.Context, filters ListFilters, params pagination.Params) (*PlantListResult, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plants")
	}
	items := make([]PlantDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewPlantDTO(&rows[i]))
	}
	return &PlantListResult{Items: items, Meta: pagination.MetaFor(params, total)}, nil
}

// SoftDeletePlant deactivates the plant. Active natures or products still
// referencing it block the deactivation.
func (s *service) SoftDeletePlant(ctx context.Context, plantID uuid.UUID) error {
	plant, err := s.loadPlant(ctx, plantID)
	if err != nil {
		return err
	}
	if !plant.IsActive {
		return nil
	}
	if err := s.ensureNoActiveDependents(ctx, plantID); err != nil {
		return err
	}

	plant.IsActive = false
	if _, err := s.repo.Update(ctx, plant); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate plant")
	}
	return nil
}

// ToggleStatus flips the active flag; deactivation runs the dependent check.
func (s *service) ToggleStatus(ctx context.Context, plantID uuid.UUID) (*PlantDTO, error) {
	plant, err := s.loadPlant(ctx, plantID)
	if err != nil {
		return nil, err
	}

	if plant.IsActive {
		if err := s.ensureNoActiveDependents(ctx, plantID); err != nil {
			return nil, err
		}
	}

	plant.IsActive = !plant.IsActive
	updated, err := s.repo.Update(ctx, plant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: toggle plant status")
	}
	return NewPlantDTO(updated), nil
}

func (s *service) ensureNoActiveDependents(ctx context.Context, plantID uuid.UUID) error {
	natures, err := s.repo.CountActiveNatures(ctx, plantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count natures")
	}
	products, err := s.repo.CountActiveProducts(ctx, plantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if natures > 0 || products > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot deactivate plant while active natures or products reference it").
			WithDetails(map[string]any{"activeNatures": natures, "activeProducts": products})
	}
	return nil
}

func (s *service) loadPlant(ctx context.Context, plantID uuid.UUID) (*models.Plant, error) {
	plant, err := s.repo.FindByID(ctx, plantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plant")
	}
	return plant, nil
}

func applyPlantUpdate(plant *models.Plant, input UpdatePlantInput) {
	if input.Name != nil {
		plant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		plant.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Description != nil {
		plant.Description = *input.Description
	}
	if input.Capacity != nil {
		plant.Capacity = input.Capacity
	}
	if input.Location != nil {
		plant.Location = *input.Location
	}
	if input.Established != nil {
		plant.Established = input.Established
	}
	if input.Machinery != nil {
		plant.Machinery = append([]string(nil), *input.Machinery...)
	}
	if input.Certifications != nil {
		plant.Certifications = append([]string(nil), *input.Certifications...)
	}
	if input.SEOTitle != nil {
		plant.SEOTitle = input.SEOTitle
	}
	if input.SEODescription != nil {
		plant.SEODescription = input.SEODescription
	}
	if input.SEOKeywords != nil {
		plant.SEOKeywords = append([]string(nil), *input.SEOKeywords...)
	}
}
