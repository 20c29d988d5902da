package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db"
	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/metrics"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
	"github.com/geosynthix/catalog-backend/pkg/storage/gcs"
)

// Service exposes catalog product management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, idOrSlug string) (*ProductDTO, error)
	ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) (*ProductListResult, error)
	SoftDeleteProduct(ctx context.Context, productID uuid.UUID) error
	PermanentDeleteProduct(ctx context.Context, productID uuid.UUID) error
	ToggleStatus(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
}

// FileInput is one uploaded file handed over from the HTTP layer.
type FileInput struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// NewImageInput is one gallery image of a create request.
type NewImageInput struct {
	File      FileInput
	Alt       string
	IsPrimary bool
}

// UpdateImageInput is one ordered gallery instruction of an update request.
// KeepURL references an existing image; File replaces it with a new upload.
type UpdateImageInput struct {
	KeepURL   string
	File      *FileInput
	Alt       string
	IsPrimary bool
}

// DocumentInput is a titled single-file asset (brochure or data sheet).
type DocumentInput struct {
	Title string
	File  FileInput
}

// SpecificationInput is one technical spec row.
type SpecificationInput struct {
	Key   string
	Value string
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name              string
	Abbreviation      *string
	Slug              string
	NatureID          uuid.UUID
	PlantID           uuid.UUID
	Description       string
	ShortDescription  *string
	Status            enums.ProductStatus
	SEOTitle          *string
	SEODescription    *string
	SEOKeywords       []string
	Applications      []string
	PlantAvailability []string
	Images            []NewImageInput
	Brochure          *DocumentInput
	TDS               *DocumentInput
	Specifications    []SpecificationInput
}

// UpdateProductInput holds optional mutation values for a product. A nil
// Images slice leaves the gallery untouched.
type UpdateProductInput struct {
	Name              *string
	Abbreviation      *string
	Slug              *string
	NatureID          *uuid.UUID
	PlantID           *uuid.UUID
	Description       *string
	ShortDescription  *string
	Status            *enums.ProductStatus
	SEOTitle          *string
	SEODescription    *string
	SEOKeywords       *[]string
	Applications      *[]string
	PlantAvailability *[]string
	Images            []UpdateImageInput
	Brochure          *DocumentInput
	TDS               *DocumentInput
	Specifications    *[]SpecificationInput
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type recordStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Product, error)
	ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error)
	CreateWithAssets(ctx context.Context, tx *gorm.DB, product *models.Product, images []models.ProductImage, specs []models.ProductSpecification) error
	UpdateWithAssets(ctx context.Context, tx *gorm.DB, product *models.Product, images []models.ProductImage, specs []models.ProductSpecification, replaceSpecs bool) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type natureLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Nature, error)
}

type plantLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Plant, error)
}

// cleanupQueue hands failed orphan deletes to an asynchronous retry worker.
type cleanupQueue interface {
	EnqueueDelete(ctx context.Context, url string) error
}

type service struct {
	repo     recordStore
	dbClient txRunner
	uploader *Uploader
	store    objectStore
	natures  natureLoader
	plants   plantLoader
	queue    cleanupQueue
	logg     *logger.Logger
	metrics  *metrics.AssetMetrics
}

// NewService constructs a product service instance. The cleanup queue is
// optional; without it failed orphan deletes are only logged.
func NewService(repo recordStore, dbClient txRunner, uploader *Uploader, store objectStore, natures natureLoader, plants plantLoader, queue cleanupQueue, logg *logger.Logger, m *metrics.AssetMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if uploader == nil {
		return nil, fmt.Errorf("uploader required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if natures == nil {
		return nil, fmt.Errorf("nature repository required")
	}
	if plants == nil {
		return nil, fmt.Errorf("plant repository required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		uploader: uploader,
		store:    store,
		natures:  natures,
		plants:   plants,
		queue:    queue,
		logg:     logg,
		metrics:  m,
	}, nil
}

// CreateProduct uploads every asset, then persists the record atomically. Any
// failure before or at the write compensates by deleting the uploads made for
// this request.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if len(input.Images) < minImages || len(input.Images) > maxImages {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products require between 1 and 5 images")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
	}
	if input.Brochure == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a brochure is required")
	}
	if input.TDS == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a technical data sheet is required")
	}
	if len(input.SEOKeywords) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one SEO keyword is required")
	}
	if len(input.Applications) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one application is required")
	}
	if len(input.PlantAvailability) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one plant availability entry is required")
	}
	if len(input.Specifications) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one technical specification is required")
	}
	if err := s.ensureActiveNature(ctx, input.NatureID); err != nil {
		return nil, err
	}
	if err := s.ensureActivePlant(ctx, input.PlantID); err != nil {
		return nil, err
	}

	assets := make([]AssetInput, 0, len(input.Images)+2)
	for _, img := range input.Images {
		assets = append(assets, s.imageAsset(img.File))
	}
	if input.Brochure != nil {
		assets = append(assets, s.documentAsset("brochure", input.Brochure.File))
	}
	if input.TDS != nil {
		assets = append(assets, s.documentAsset("tds", input.TDS.File))
	}

	outcomes, err := s.uploader.UploadAll(ctx, assets)
	if err != nil {
		s.rollbackUploads(ctx, outcomes)
		return nil, err
	}

	instructions := make([]ImageInstruction, len(input.Images))
	for i, img := range input.Images {
		outcome := outcomes[i]
		instructions[i] = ImageInstruction{
			Upload:    &outcome,
			Alt:       img.Alt,
			IsPrimary: img.IsPrimary,
		}
	}

	product := &models.Product{
		Name:              strings.TrimSpace(input.Name),
		Abbreviation:      input.Abbreviation,
		Slug:              strings.TrimSpace(input.Slug),
		NatureID:          input.NatureID,
		PlantID:           input.PlantID,
		Description:       input.Description,
		ShortDescription:  input.ShortDescription,
		IsActive:          true,
		Status:            input.Status,
		SEOTitle:          input.SEOTitle,
		SEODescription:    input.SEODescription,
		SEOKeywords:       input.SEOKeywords,
		Applications:      input.Applications,
		PlantAvailability: input.PlantAvailability,
	}

	docOutcomes := outcomes[len(input.Images):]
	if input.Brochure != nil {
		product.BrochureURL = &docOutcomes[0].URL
		product.BrochureTitle = &input.Brochure.Title
		docOutcomes = docOutcomes[1:]
	}
	if input.TDS != nil {
		product.TDSURL = &docOutcomes[0].URL
		product.TDSTitle = &input.TDS.Title
	}

	plan, err := reconcileImages(uuid.Nil, nil, instructions)
	if err != nil {
		s.rollbackUploads(ctx, outcomes)
		return nil, err
	}

	specs := specificationRows(input.Specifications)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.CreateWithAssets(ctx, tx, product, plan.finalImages, specs)
	}); err != nil {
		s.rollbackUploads(ctx, outcomes)
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a product with this name or slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create product")
	}

	created, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct reconciles the gallery against the ordered instructions,
// uploads replacements, persists, then retires orphaned assets after commit.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.NatureID != nil {
		if err := s.ensureActiveNature(ctx, *input.NatureID); err != nil {
			return nil, err
		}
	}
	if input.PlantID != nil {
		if err := s.ensureActivePlant(ctx, *input.PlantID); err != nil {
			return nil, err
		}
	}

	// Upload batch: image replacements in instruction order, then documents.
	assets := make([]AssetInput, 0, len(input.Images)+2)
	for _, inst := range input.Images {
		if inst.File != nil {
			assets = append(assets, s.imageAsset(*inst.File))
		}
	}
	if input.Brochure != nil {
		assets = append(assets, s.documentAsset("brochure", input.Brochure.File))
	}
	if input.TDS != nil {
		assets = append(assets, s.documentAsset("tds", input.TDS.File))
	}

	outcomes, err := s.uploader.UploadAll(ctx, assets)
	if err != nil {
		s.rollbackUploads(ctx, outcomes)
		return nil, err
	}

	orphans := make([]string, 0)

	plan := reconciliationPlan{}
	if input.Images != nil {
		next := outcomes
		instructions := make([]ImageInstruction, len(input.Images))
		for i, inst := range input.Images {
			instructions[i] = ImageInstruction{
				KeepURL:   inst.KeepURL,
				Alt:       inst.Alt,
				IsPrimary: inst.IsPrimary,
			}
			if inst.File != nil {
				outcome := next[0]
				next = next[1:]
				instructions[i].KeepURL = ""
				instructions[i].Upload = &outcome
			}
		}

		plan, err = reconcileImages(product.ID, product.Images, instructions)
		if err != nil {
			s.rollbackUploads(ctx, outcomes)
			return nil, err
		}
		orphans = append(orphans, plan.orphanURLs...)
	}

	docOutcomes := outcomes[len(outcomes)-documentCount(input):]
	if input.Brochure != nil {
		if product.BrochureURL != nil {
			orphans = append(orphans, *product.BrochureURL)
		}
		product.BrochureURL = &docOutcomes[0].URL
		product.BrochureTitle = &input.Brochure.Title
		docOutcomes = docOutcomes[1:]
	}
	if input.TDS != nil {
		if product.TDSURL != nil {
			orphans = append(orphans, *product.TDSURL)
		}
		product.TDSURL = &docOutcomes[0].URL
		product.TDSTitle = &input.TDS.Title
	}

	applyProductUpdate(product, input)

	var specs []models.ProductSpecification
	if input.Specifications != nil {
		specs = specificationRows(*input.Specifications)
		for i := range specs {
			specs[i].ProductID = product.ID
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.UpdateWithAssets(ctx, tx, product, plan.finalImages, specs, input.Specifications != nil)
	}); err != nil {
		s.rollbackUploads(ctx, outcomes)
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a product with this name or slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	// The write committed; orphaned assets are unreferenced and safe to retire.
	s.cleanupOrphans(ctx, orphans)

	updated, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(updated), nil
}

func (s *service) GetProduct(ctx context.Context, idOrSlug string) (*ProductDTO, error) {
	product, err := s.repo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) (*ProductListResult, error) {
	rows, total, err := s.repo.ListProducts(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewProductDTO(&rows[i]))
	}
	return &ProductListResult{Items: items, Meta: pagination.MetaFor(params, total)}, nil
}

// SoftDeleteProduct hides the product from the public catalog.
func (s *service) SoftDeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	product.IsActive = false

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.UpdateWithAssets(ctx, tx, product, nil, nil, false)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate product")
	}
	return nil
}

// PermanentDeleteProduct removes the record, then retires its remote assets.
func (s *service) PermanentDeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}

	urls := make([]string, 0, len(product.Images)+2)
	for _, img := range product.Images {
		urls = append(urls, img.URL)
	}
	if product.BrochureURL != nil {
		urls = append(urls, *product.BrochureURL)
	}
	if product.TDSURL != nil {
		urls = append(urls, *product.TDSURL)
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}

	s.cleanupOrphans(ctx, urls)
	return nil
}

// ToggleStatus flips the active flag. Activation requires the nature and the
// plant to be active themselves.
func (s *service) ToggleStatus(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !product.IsActive {
		nature, err := s.natures.FindByID(ctx, product.NatureID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load nature")
		}
		plant, err := s.plants.FindByID(ctx, product.PlantID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plant")
		}
		if !nature.IsActive || !plant.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot activate product while its nature or plant is inactive")
		}
	}

	product.IsActive = !product.IsActive
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.UpdateWithAssets(ctx, tx, product, nil, nil, false)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: toggle product status")
	}

	updated, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(updated), nil
}

// rollbackUploads deletes every object made durable in this request. It runs
// on a context detached from the request so a client abort cannot orphan
// assets, and its failures are logged, never surfaced.
func (s *service) rollbackUploads(ctx context.Context, outcomes []UploadOutcome) {
	if len(outcomes) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)

	var errs error
	for _, outcome := range outcomes {
		s.metrics.IncRollback()
		if err := s.store.DeleteObject(detached, outcome.Bucket, outcome.Object); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("delete %s: %w", outcome.Object, err))
		}
	}
	if errs != nil && s.logg != nil {
		logCtx := s.logg.WithFields(detached, map[string]any{"objects": len(outcomes)})
		s.logg.Error(logCtx, "asset.rollback.partial", errs)
	}
}

// cleanupOrphans best-effort deletes urls dereferenced by a committed write.
// Failures are logged and enqueued for retry, never surfaced.
func (s *service) cleanupOrphans(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)

	for _, url := range urls {
		bucket, object, err := gcs.ObjectFromURL(url)
		if err == nil {
			err = s.store.DeleteObject(detached, bucket, object)
		}
		if err == nil {
			continue
		}

		if s.logg != nil {
			logCtx := s.logg.WithFields(detached, map[string]any{"url": url})
			s.logg.Error(logCtx, "asset.cleanup.failed", err)
		}
		if s.queue != nil {
			s.metrics.IncCleanupRetry()
			if qErr := s.queue.EnqueueDelete(detached, url); qErr != nil && s.logg != nil {
				logCtx := s.logg.WithFields(detached, map[string]any{"url": url})
				s.logg.Error(logCtx, "asset.cleanup.enqueue_failed", qErr)
			}
		}
	}
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ensureActiveNature(ctx context.Context, id uuid.UUID) error {
	nature, err := s.natures.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "active nature not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load nature")
	}
	if !nature.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "active nature not found")
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

func (s *service) imageAsset(file FileInput) AssetInput {
	return AssetInput{
		Kind:        "image",
		Object:      assetObject("products/images", file.Filename),
		ContentType: file.ContentType,
		Open:        file.Open,
	}
}

func (s *service) documentAsset(kind string, file FileInput) AssetInput {
	return AssetInput{
		Kind:        kind,
		Object:      assetObject("products/documents", file.Filename),
		ContentType: file.ContentType,
		Open:        file.Open,
	}
}

func assetObject(prefix, filename string) string {
	base := strings.ToLower(strings.TrimSpace(path.Base(filename)))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" || base == "." {
		base = "asset"
	}
	return fmt.Sprintf("%s/%s-%s", prefix, uuid.NewString(), base)
}

func documentCount(input UpdateProductInput) int {
	n := 0
	if input.Brochure != nil {
		n++
	}
	if input.TDS != nil {
		n++
	}
	return n
}

func specificationRows(inputs []SpecificationInput) []models.ProductSpecification {
	rows := make([]models.ProductSpecification, 0, len(inputs))
	for i, spec := range inputs {
		rows = append(rows, models.ProductSpecification{
			Key:      strings.TrimSpace(spec.Key),
			Value:    strings.TrimSpace(spec.Value),
			Position: i,
		})
	}
	return rows
}

func applyProductUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Abbreviation != nil {
		product.Abbreviation = input.Abbreviation
	}
	if input.Slug != nil {
		product.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.NatureID != nil {
		product.NatureID = *input.NatureID
	}
	if input.PlantID != nil {
		product.PlantID = *input.PlantID
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.ShortDescription != nil {
		product.ShortDescription = input.ShortDescription
	}
	if input.Status != nil {
		product.Status = *input.Status
	}
	if input.SEOTitle != nil {
		product.SEOTitle = input.SEOTitle
	}
	if input.SEODescription != nil {
		product.SEODescription = input.SEODescription
	}
	if input.SEOKeywords != nil {
		product.SEOKeywords = append([]string(nil), *input.SEOKeywords...)
	}
	if input.Applications != nil {
		product.Applications = append([]string(nil), *input.Applications...)
	}
	if input.PlantAvailability != nil {
		product.PlantAvailability = append([]string(nil), *input.PlantAvailability...)
	}
}
