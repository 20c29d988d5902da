package natures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db"
	"github.com/geosynthix/catalog-backend/pkg/db/models"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
	"github.com/geosynthix/catalog-backend/pkg/storage/gcs"
)

// Service exposes nature (product category) management operations.
type Service interface {
	CreateNature(ctx context.Context, input CreateNatureInput) (*NatureDTO, error)
	UpdateNature(ctx context.Context, natureID uuid.UUID, input UpdateNatureInput) (*NatureDTO, error)
	GetNature(ctx context.Context, idOrSlug string) (*NatureDTO, error)
	ListNatures(ctx context.Context, filters ListFilters, params pagination.Params) (*NatureListResult, error)
	SoftDeleteNature(ctx context.Context, natureID uuid.UUID) error
	ToggleStatus(ctx context.Context, natureID uuid.UUID) (*NatureDTO, error)
}

// FileInput is the uploaded category image handed over from the HTTP layer.
type FileInput struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// CreateNatureInput holds the validated payload to create a nature.
type CreateNatureInput struct {
	Name              string
	Slug              string
	PlantID           uuid.UUID
	Description       string
	Image             *FileInput
	TechnicalOverview *string
	Applications      *string
	KeyFeatures       *string
	RelatedIndustries []string
	SEOTitle          *string
	SEODescription    *string
	SEOKeywords       []string
}

// UpdateNatureInput holds optional mutation values for a nature. A non-nil
// Image replaces the category image; the previous object is retired after the
// write commits.
type UpdateNatureInput struct {
	Name              *string
	Slug              *string
	PlantID           *uuid.UUID
	Description       *string
	Image             *FileInput
	TechnicalOverview *string
	Applications      *string
	KeyFeatures       *string
	RelatedIndustries *[]string
	SEOTitle          *string
	SEODescription    *string
	SEOKeywords       *[]string
}

type natureStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Nature, error)
	FindByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Nature, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Nature, int64, error)
	Create(ctx context.Context, nature *models.Nature) (*models.Nature, error)
	Update(ctx context.Context, nature *models.Nature) (*models.Nature, error)
	CountActiveProducts(ctx context.Context, natureID uuid.UUID) (int64, error)
}

type plantLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Plant, error)
}

type objectStore interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
	DefaultBucket() string
}

type cleanupQueue interface {
	EnqueueDelete(ctx context.Context, url string) error
}

type service struct {
	repo   natureStore
	plants plantLoader
	store  objectStore
	queue  cleanupQueue
	logg   *logger.Logger
}

// NewService constructs a nature service instance. The cleanup queue is
// optional; without it failed image deletes are only logged.
func NewService(repo natureStore, plants plantLoader, store objectStore, queue cleanupQueue, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("nature repository required")
	}
	if plants == nil {
		return nil, fmt.Errorf("plant repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &service{repo: repo, plants: plants, store: store, queue: queue, logg: logg}, nil
}

// CreateNature uploads the category image first, then persists the record.
// A failed write compensates by deleting the fresh upload.
func (s *service) CreateNature(ctx context.Context, input CreateNatureInput) (*NatureDTO, error) {
	if err := s.ensureActivePlant(ctx, input.PlantID); err != nil {
		return nil, err
	}

	nature := &models.Nature{
		Name:              strings.TrimSpace(input.Name),
		Slug:              strings.TrimSpace(input.Slug),
		PlantID:           input.PlantID,
		Description:       input.Description,
		TechnicalOverview: input.TechnicalOverview,
		Applications:      input.Applications,
		KeyFeatures:       input.KeyFeatures,
		RelatedIndustries: input.RelatedIndustries,
		IsActive:          true,
		SEOTitle:          input.SEOTitle,
		SEODescription:    input.SEODescription,
		SEOKeywords:       input.SEOKeywords,
	}

	var uploaded *uploadedObject
	if input.Image != nil {
		obj, err := s.uploadImage(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		uploaded = obj
		nature.ImageURL = &obj.url
	}

	created, err := s.repo.Create(ctx, nature)
	if err != nil {
		s.rollbackUpload(ctx, uploaded)
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a nature with this name or slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create nature")
	}
	return NewNatureDTO(created), nil
}

// UpdateNature replaces the category image when one is provided and retires
// the previous object after the write commits.
func (s *service) UpdateNature(ctx context.Context, natureID uuid.UUID, input UpdateNatureInput) (*NatureDTO, error) {
	nature, err := s.loadNature(ctx, natureID)
	if err != nil {
		return nil, err
	}

	if input.PlantID != nil {
		if err := s.ensureActivePlant(ctx, *input.PlantID); err != nil {
			return nil, err
		}
	}

	var uploaded *uploadedObject
	var retired *string
	if input.Image != nil {
		obj, err := s.uploadImage(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		uploaded = obj
		retired = nature.ImageURL
		nature.ImageURL = &obj.url
	}

	applyNatureUpdate(nature, input)

	updated, err := s.repo.Update(ctx, nature)
	if err != nil {
		s.rollbackUpload(ctx, uploaded)
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a nature with this name or slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update nature")
	}

	if retired != nil {
		s.cleanupOrphan(ctx, *retired)
	}
	return NewNatureDTO(updated), nil
}

func (s *service) GetNature(ctx context.Context, idOrSlug string) (*NatureDTO, error) {
	nature, err := s.repo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "nature not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load nature")
	}
	if !nature.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "nature not found")
	}
	return NewNatureDTO(nature), nil
}

func (s *service) ListNatures(ctx context.Context, filters ListFilters, params pagination.Params) (*NatureListResult, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list natures")
	}
	items := make([]NatureDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewNatureDTO(&rows[i]))
	}
	return &NatureListResult{Items: items, Meta: pagination.MetaFor(params, total)}, nil
}

// SoftDeleteNature deactivates the nature. Active products still referencing
// it block the deactivation.
func (s *service) SoftDeleteNature(ctx context.Context, natureID uuid.UUID) error {
	nature, err := s.loadNature(ctx, natureID)
	if err != nil {
		return err
	}
	if !nature.IsActive {
		return nil
	}
	if err := s.ensureNoActiveProducts(ctx, natureID); err != nil {
		return err
	}

	nature.IsActive = false
	if _, err := s.repo.Update(ctx, nature); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate nature")
	}
	return nil
}

// ToggleStatus flips the active flag. Activation requires the plant to be
// active; deactivation runs the dependent check.
func (s *service) ToggleStatus(ctx context.Context, natureID uuid.UUID) (*NatureDTO, error) {
	nature, err := s.loadNature(ctx, natureID)
	if err != nil {
		return nil, err
	}

	if nature.IsActive {
		if err := s.ensureNoActiveProducts(ctx, natureID); err != nil {
			return nil, err
		}
	} else {
		plant, err := s.plants.FindByID(ctx, nature.PlantID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plant")
		}
		if !plant.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot activate nature while its plant is inactive")
		}
	}

	nature.IsActive = !nature.IsActive
	updated, err := s.repo.Update(ctx, nature)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: toggle nature status")
	}
	return NewNatureDTO(updated), nil
}

type uploadedObject struct {
	url    string
	bucket string
	object string
}

func (s *service) uploadImage(ctx context.Context, file FileInput) (*uploadedObject, error) {
	if file.Open == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image has no content")
	}
	body, err := file.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "open image content")
	}
	defer func() { _ = body.Close() }()

	bucket := s.store.DefaultBucket()
	object := imageObject(file.Filename)
	url, err := s.store.UploadObject(ctx, bucket, object, file.ContentType, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "upload nature image").
			WithDetails(map[string]any{"object": object})
	}
	return &uploadedObject{url: url, bucket: bucket, object: object}, nil
}

// rollbackUpload deletes the fresh upload when the write fails. Runs detached
// from the request context; failures are logged, never surfaced.
func (s *service) rollbackUpload(ctx context.Context, obj *uploadedObject) {
	if obj == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	if err := s.store.DeleteObject(detached, obj.bucket, obj.object); err != nil && s.logg != nil {
		logCtx := s.logg.WithField(detached, "object", obj.object)
		s.logg.Error(logCtx, "asset.rollback.partial", err)
	}
}

func (s *service) cleanupOrphan(ctx context.Context, url string) {
	detached := context.WithoutCancel(ctx)

	bucket, object, err := gcs.ObjectFromURL(url)
	if err == nil {
		err = s.store.DeleteObject(detached, bucket, object)
	}
	if err == nil {
		return
	}

	if s.logg != nil {
		logCtx := s.logg.WithField(detached, "url", url)
		s.logg.Error(logCtx, "asset.cleanup.failed", err)
	}
	if s.queue != nil {
		if qErr := s.queue.EnqueueDelete(detached, url); qErr != nil && s.logg != nil {
			logCtx := s.logg.WithField(detached, "url", url)
			s.logg.Error(logCtx, "asset.cleanup.enqueue_failed", qErr)
		}
	}
}

func (s *service) ensureNoActiveProducts(ctx context.Context, natureID uuid.UUID) error {
	products, err := s.repo.CountActiveProducts(ctx, natureID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if products > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot deactivate nature while active products reference it").
			WithDetails(map[string]any{"activeProducts": products})
	}
	return nil
}

func (s *service) ensureActivePlant(ctx context.Context, id uuid.UUID) error {
	plant, err := s.plants.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "active plant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plant")
	}
	if !plant.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "active plant not found")
	}
	return nil
}

func (s *service) loadNature(ctx context.Context, natureID uuid.UUID) (*models.Nature, error) {
	nature, err := s.repo.FindByID(ctx, natureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "nature not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load nature")
	}
	return nature, nil
}

func imageObject(filename string) string {
	base := strings.ToLower(strings.TrimSpace(path.Base(filename)))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" || base == "." {
		base = "image"
	}
	return fmt.Sprintf("natures/images/%s-%s", uuid.NewString(), base)
}

func applyNatureUpdate(nature *models.Nature, input UpdateNatureInput) {
	if input.Name != nil {
		nature.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		nature.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.PlantID != nil {
		nature.PlantID = *input.PlantID
	}
	if input.Description != nil {
		nature.Description = *input.Description
	}
	if input.TechnicalOverview != nil {
		nature.TechnicalOverview = input.TechnicalOverview
	}
	if input.Applications != nil {
		nature.Applications = input.Applications
	}
	if input.KeyFeatures != nil {
		nature.KeyFeatures = input.KeyFeatures
	}
	if input.RelatedIndustries != nil {
		nature.RelatedIndustries = append([]string(nil), *input.RelatedIndustries...)
	}
	if input.SEOTitle != nil {
		nature.SEOTitle = input.SEOTitle
	}
	if input.SEODescription != nil {
		nature.SEODescription = input.SEODescription
	}
	if input.SEOKeywords != nil {
		nature.SEOKeywords = append([]string(nil), *input.SEOKeywords...)
	}
}
