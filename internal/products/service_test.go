package products

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
	"github.com/rs/zerolog"
)

type fakeRecordStore struct {
	products  map[uuid.UUID]*models.Product
	createErr error
	updateErr error
	deleteErr error
	creates   int
	updates   int
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{products: make(map[uuid.UUID]*models.Product)}
}

func (f *fakeRecordStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *product
	return &clone, nil
}

func (f *fakeRecordStore) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Product, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return f.FindByID(ctx, id)
	}
	for _, product := range f.products {
		if product.Slug == idOrSlug {
			clone := *product
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRecordStore) ListProducts(_ context.Context, _ ListFilters, _ pagination.Params) ([]models.Product, int64, error) {
	rows := make([]models.Product, 0, len(f.products))
	for _, product := range f.products {
		rows = append(rows, *product)
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeRecordStore) CreateWithAssets(_ context.Context, _ *gorm.DB, product *models.Product, images []models.ProductImage, specs []models.ProductSpecification) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	for i := range images {
		images[i].ProductID = product.ID
	}
	for i := range specs {
		specs[i].ProductID = product.ID
	}
	clone := *product
	clone.Images = images
	clone.Specifications = specs
	f.products[product.ID] = &clone
	return nil
}

func (f *fakeRecordStore) UpdateWithAssets(_ context.Context, _ *gorm.DB, product *models.Product, images []models.ProductImage, specs []models.ProductSpecification, replaceSpecs bool) error {
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.products[product.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *product
	clone.Images = stored.Images
	clone.Specifications = stored.Specifications
	if len(images) > 0 {
		clone.Images = images
	}
	if replaceSpecs {
		clone.Specifications = specs
	}
	f.products[product.ID] = &clone
	return nil
}

func (f *fakeRecordStore) DeleteProduct(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.products, id)
	return nil
}

type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type fakeNatureLoader struct {
	natures map[uuid.UUID]*models.Nature
}

func (f *fakeNatureLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Nature, error) {
	nature, ok := f.natures[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return nature, nil
}

type fakePlantLoader struct {
	plants map[uuid.UUID]*models.Plant
}

func (f *fakePlantLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Plant, error) {
	plant, ok := f.plants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return plant, nil
}

type fakeCleanupQueue struct {
	enqueued []string
	err      error
}

func (f *fakeCleanupQueue) EnqueueDelete(_ context.Context, url string) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, url)
	return nil
}

type serviceFixture struct {
	service Service
	store   *fakeObjectStore
	records *fakeRecordStore
	tx      *fakeTxRunner
	queue   *fakeCleanupQueue
	natures *fakeNatureLoader
	plants  *fakePlantLoader

	natureID uuid.UUID
	plantID  uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	store := newFakeObjectStore()
	uploader, err := NewUploader(store, nil)
	if err != nil {
		t.Fatalf("NewUploader: %v", err)
	}

	natureID := uuid.New()
	plantID := uuid.New()
	natures := &fakeNatureLoader{natures: map[uuid.UUID]*models.Nature{
		natureID: {ID: natureID, IsActive: true},
	}}
	plants := &fakePlantLoader{plants: map[uuid.UUID]*models.Plant{
		plantID: {ID: plantID, IsActive: true},
	}}

	records := newFakeRecordStore()
	tx := &fakeTxRunner{}
	queue := &fakeCleanupQueue{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})

	svc, err := NewService(records, tx, uploader, store, natures, plants, queue, logg, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	return &serviceFixture{
		service:  svc,
		store:    store,
		records:  records,
		tx:       tx,
		queue:    queue,
		natures:  natures,
		plants:   plants,
		natureID: natureID,
		plantID:  plantID,
	}
}

func fileInput(name string) FileInput {
	return FileInput{
		Filename:    name,
		ContentType: "image/webp",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("payload")), nil
		},
	}
}

func (fx *serviceFixture) createInput(imageCount int) CreateProductInput {
	images := make([]NewImageInput, 0, imageCount)
	for i := 0; i < imageCount; i++ {
		images = append(images, NewImageInput{
			File:      fileInput("gallery.webp"),
			Alt:       "gallery",
			IsPrimary: i == 0,
		})
	}
	return CreateProductInput{
		Name:              "Woven Geotextile 200",
		Slug:              "woven-geotextile-200",
		NatureID:          fx.natureID,
		PlantID:           fx.plantID,
		Description:       "High-strength woven geotextile.",
		Status:            enums.ProductStatusInStock,
		SEOKeywords:       []string{"geotextile"},
		Applications:      []string{"road reinforcement"},
		PlantAvailability: []string{"Gujarat"},
		Images:            images,
		Brochure:          &DocumentInput{Title: "Brochure", File: fileInput("brochure.pdf")},
		TDS:               &DocumentInput{Title: "Data sheet", File: fileInput("tds.pdf")},
		Specifications: []SpecificationInput{
			{Key: "Tensile strength", Value: "200 kN/m"},
		},
	}
}

func TestCreateProductHappyPath(t *testing.T) {
	fx := newServiceFixture(t)

	dto, err := fx.service.CreateProduct(context.Background(), fx.createInput(3))
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if len(dto.Images) != 3 {
		t.Fatalf("expected 3 images, got %d", len(dto.Images))
	}
	for i, img := range dto.Images {
		if img.Position != i {
			t.Errorf("image %d position = %d", i, img.Position)
		}
	}
	if !dto.IsActive {
		t.Error("new products start active")
	}
	if len(fx.store.uploads) != 5 {
		t.Errorf("expected 3 image and 2 document uploads, got %v", fx.store.uploads)
	}
	if dto.BrochureURL == nil || dto.TDSURL == nil {
		t.Error("brochure and data sheet urls must be set")
	}
	if deleted := fx.store.deleted(); len(deleted) != 0 {
		t.Errorf("happy path must not delete objects: %v", deleted)
	}
	if len(dto.Specifications) != 1 {
		t.Errorf("specifications not persisted: %v", dto.Specifications)
	}
}

func TestCreateProductRejectsEmptyGalleryBeforeUploading(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.service.CreateProduct(context.Background(), fx.createInput(0))
	assertCode(t, err, pkgerrors.CodeValidation)
	if len(fx.store.uploads) != 0 {
		t.Errorf("validation must run before any upload: %v", fx.store.uploads)
	}
	if fx.records.creates != 0 {
		t.Error("nothing should reach the database")
	}
}

func TestCreateProductRollsBackPartialUploads(t *testing.T) {
	fx := newServiceFixture(t)
	fx.store.failOn = "brochure"

	_, err := fx.service.CreateProduct(context.Background(), fx.createInput(2))
	assertCode(t, err, pkgerrors.CodeUpload)

	if len(fx.store.uploads) != 2 {
		t.Fatalf("expected the two image uploads before the failure, got %v", fx.store.uploads)
	}
	deleted := fx.store.deleted()
	if len(deleted) != 2 {
		t.Fatalf("both durable uploads must be rolled back, got %v", deleted)
	}
	if fx.records.creates != 0 {
		t.Error("a failed batch must never reach the database")
	}
}

func TestCreateProductRollsBackOnPersistFailure(t *testing.T) {
	fx := newServiceFixture(t)
	fx.records.createErr = errors.New("constraint violated")

	_, err := fx.service.CreateProduct(context.Background(), fx.createInput(2))
	assertCode(t, err, pkgerrors.CodeDependency)

	deleted := fx.store.deleted()
	if len(deleted) != 4 {
		t.Fatalf("every upload must be rolled back when the write fails, got %v", deleted)
	}
	if len(fx.records.products) != 0 {
		t.Error("no product should survive a failed write")
	}
}

func TestCreateProductValidatesPrimaryFlags(t *testing.T) {
	fx := newServiceFixture(t)

	input := fx.createInput(2)
	input.Images[1].IsPrimary = true

	_, err := fx.service.CreateProduct(context.Background(), input)
	assertCode(t, err, pkgerrors.CodeValidation)

	// Uploads happened before reconciliation rejected the batch, so they
	// must all be compensated.
	if deleted := fx.store.deleted(); len(deleted) != 4 {
		t.Errorf("expected 4 rollback deletes, got %v", deleted)
	}
}

func TestCreateProductRequiresDocumentsAndDetails(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateProductInput)
	}{
		{"missing brochure", func(in *CreateProductInput) { in.Brochure = nil }},
		{"missing data sheet", func(in *CreateProductInput) { in.TDS = nil }},
		{"no seo keywords", func(in *CreateProductInput) { in.SEOKeywords = nil }},
		{"no applications", func(in *CreateProductInput) { in.Applications = nil }},
		{"no plant availability", func(in *CreateProductInput) { in.PlantAvailability = nil }},
		{"no specifications", func(in *CreateProductInput) { in.Specifications = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newServiceFixture(t)
			input := fx.createInput(2)
			tc.mutate(&input)

			_, err := fx.service.CreateProduct(context.Background(), input)
			assertCode(t, err, pkgerrors.CodeValidation)
			if len(fx.store.uploads) != 0 {
				t.Errorf("validation must run before any upload: %v", fx.store.uploads)
			}
			if fx.records.creates != 0 {
				t.Error("nothing should reach the database")
			}
		})
	}
}

func TestCreateProductRejectsInactiveNature(t *testing.T) {
	fx := newServiceFixture(t)
	fx.natures.natures[fx.natureID].IsActive = false

	_, err := fx.service.CreateProduct(context.Background(), fx.createInput(2))
	assertCode(t, err, pkgerrors.CodeNotFound)
	if len(fx.store.uploads) != 0 {
		t.Errorf("an inactive nature must be rejected before any upload: %v", fx.store.uploads)
	}
}

func TestCreateProductRejectsInactivePlant(t *testing.T) {
	fx := newServiceFixture(t)
	fx.plants.plants[fx.plantID].IsActive = false

	_, err := fx.service.CreateProduct(context.Background(), fx.createInput(2))
	assertCode(t, err, pkgerrors.CodeNotFound)
	if len(fx.store.uploads) != 0 {
		t.Errorf("an inactive plant must be rejected before any upload: %v", fx.store.uploads)
	}
}

func TestCreateProductDuplicateNameConflict(t *testing.T) {
	fx := newServiceFixture(t)
	fx.records.createErr = errors.New(`duplicate key value violates unique constraint "idx_products_slug"`)

	_, err := fx.service.CreateProduct(context.Background(), fx.createInput(2))
	assertCode(t, err, pkgerrors.CodeConflict)
	if deleted := fx.store.deleted(); len(deleted) != 4 {
		t.Errorf("uploads must still be rolled back on a conflict, got %v", deleted)
	}
}

func seedProduct(fx *serviceFixture, urls ...string) *models.Product {
	id := uuid.New()
	product := &models.Product{
		ID:       id,
		Name:     "Seeded",
		Slug:     "seeded",
		NatureID: fx.natureID,
		PlantID:  fx.plantID,
		IsActive: true,
		Status:   enums.ProductStatusInStock,
		Images:   existingGallery(id, urls...),
	}
	fx.records.products[id] = product
	return product
}

func TestUpdateProductReplacesAndCleansOrphans(t *testing.T) {
	fx := newServiceFixture(t)
	product := seedProduct(fx,
		"https://storage.googleapis.com/test-bucket/products/images/old-a.webp",
		"https://storage.googleapis.com/test-bucket/products/images/old-b.webp",
	)

	replacement := fileInput("fresh.webp")
	_, err := fx.service.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Images: []UpdateImageInput{
			{KeepURL: product.Images[0].URL, Alt: "kept", IsPrimary: true},
			{File: &replacement, Alt: "fresh"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	deleted := fx.store.deleted()
	if len(deleted) != 1 || deleted[0] != "products/images/old-b.webp" {
		t.Fatalf("expected the dropped image to be retired, got %v", deleted)
	}
	if len(fx.queue.enqueued) != 0 {
		t.Errorf("successful cleanup must not enqueue retries: %v", fx.queue.enqueued)
	}

	updated := fx.records.products[product.ID]
	if len(updated.Images) != 2 {
		t.Fatalf("expected 2 images after update, got %d", len(updated.Images))
	}
	if updated.Images[0].URL != product.Images[0].URL {
		t.Errorf("kept image lost: %q", updated.Images[0].URL)
	}
}

func TestUpdateProductDropsUnknownKeepURL(t *testing.T) {
	fx := newServiceFixture(t)
	product := seedProduct(fx, "https://storage.googleapis.com/test-bucket/products/images/only.webp")

	_, err := fx.service.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Images: []UpdateImageInput{
			{KeepURL: product.Images[0].URL, IsPrimary: true},
			{KeepURL: "https://storage.googleapis.com/test-bucket/products/images/phantom.webp"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	updated := fx.records.products[product.ID]
	if len(updated.Images) != 1 {
		t.Fatalf("phantom keep url should be dropped, got %d images", len(updated.Images))
	}
}

func TestUpdateProductEnqueuesFailedCleanup(t *testing.T) {
	fx := newServiceFixture(t)
	product := seedProduct(fx,
		"https://storage.googleapis.com/test-bucket/products/images/old-a.webp",
		"https://storage.googleapis.com/test-bucket/products/images/old-b.webp",
	)
	fx.store.deleteErr = errors.New("storage unavailable")

	_, err := fx.service.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Images: []UpdateImageInput{
			{KeepURL: product.Images[0].URL, IsPrimary: true},
		},
	})
	if err != nil {
		t.Fatalf("cleanup failures must not surface: %v", err)
	}
	if len(fx.queue.enqueued) != 1 || fx.queue.enqueued[0] != product.Images[1].URL {
		t.Fatalf("failed delete must be enqueued for retry, got %v", fx.queue.enqueued)
	}
}

func TestUpdateProductRollsBackReplacementOnPersistFailure(t *testing.T) {
	fx := newServiceFixture(t)
	product := seedProduct(fx, "https://storage.googleapis.com/test-bucket/products/images/old-a.webp")
	fx.records.updateErr = errors.New("deadlock")

	replacement := fileInput("fresh.webp")
	_, err := fx.service.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Images: []UpdateImageInput{
			{File: &replacement, IsPrimary: true},
		},
	})
	assertCode(t, err, pkgerrors.CodeDependency)

	deleted := fx.store.deleted()
	if len(deleted) != 1 {
		t.Fatalf("the fresh upload must be rolled back, got %v", deleted)
	}
	// The pre-existing image was never touched.
	if deleted[0] == "products/images/old-a.webp" {
		t.Error("rollback must never delete pre-existing assets")
	}
}

func TestUpdateProductWithoutPrimaryRollsBackFreshUpload(t *testing.T) {
	fx := newServiceFixture(t)
	product := seedProduct(fx, "https://storage.googleapis.com/test-bucket/products/images/old-a.webp")

	replacement := fileInput("fresh.webp")
	_, err := fx.service.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Images: []UpdateImageInput{
			{KeepURL: product.Images[0].URL},
			{File: &replacement, Alt: "fresh"},
		},
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	deleted := fx.store.deleted()
	if len(deleted) != 1 {
		t.Fatalf("only the fresh upload must be rolled back, got %v", deleted)
	}
	if !strings.Contains(deleted[0], "fresh.webp") {
		t.Errorf("rolled back the wrong object: %q", deleted[0])
	}
	if fx.records.updates != 0 {
		t.Error("a rejected gallery must never reach the database")
	}
	stored := fx.records.products[product.ID]
	if len(stored.Images) != 1 || stored.Images[0].URL != product.Images[0].URL {
		t.Errorf("stored gallery must be untouched, got %v", stored.Images)
	}
}

func TestUpdateProductRetiresReplacedBrochure(t *testing.T) {
	fx := newServiceFixture(t)
	product := seedProduct(fx, "https://storage.googleapis.com/test-bucket/products/images/only.webp")
	oldBrochure := "https://storage.googleapis.com/test-bucket/products/documents/old.pdf"
	product.BrochureURL = &oldBrochure
	fx.records.products[product.ID] = product

	_, err := fx.service.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Brochure: &DocumentInput{Title: "New brochure", File: fileInput("new.pdf")},
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	deleted := fx.store.deleted()
	if len(deleted) != 1 || deleted[0] != "products/documents/old.pdf" {
		t.Fatalf("the replaced brochure must be retired, got %v", deleted)
	}
	updated := fx.records.products[product.ID]
	if updated.BrochureURL == nil || *updated.BrochureURL == oldBrochure {
		t.Error("brochure url not replaced")
	}
	if len(updated.Images) != 1 {
		t.Errorf("gallery must be untouched when no image instructions are sent, got %d", len(updated.Images))
	}
}

func TestGetProductHidesInactive(t *testing.T) {
	fx := newServiceFixture(t)
	product := seedProduct(fx, "https://storage.googleapis.com/test-bucket/products/images/only.webp")
	product.IsActive = false
	fx.records.products[product.ID] = product

	_, err := fx.service.GetProduct(context.Background(), product.ID.String())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetProductBySlug(t *testing.T) {
	fx := newServiceFixture(t)
	seedProduct(fx, "https://storage.googleapis.com/test-bucket/products/images/only.webp")

	dto, err := fx.service.GetProduct(context.Background(), "seeded")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if dto.Slug != "seeded" {
		t.Errorf("slug = %q", dto.Slug)
	}
}

func TestToggleStatusBlockedByInactiveNature(t *testing.T) {
	fx := newServiceFixture(t)
	product := seedProduct(fx, "https://storage.googleapis.com/test-bucket/products/images/only.webp")
	product.IsActive = false
	fx.records.products[product.ID] = product
	fx.natures.natures[fx.natureID].IsActive = false

	_, err := fx.service.ToggleStatus(context.Background(), product.ID)
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestToggleStatusDeactivatesWithoutChecks(t *testing.T) {
	fx := newServiceFixture(t)
	product := seedProduct(fx, "https://storage.googleapis.com/test-bucket/products/images/only.webp")
	fx.natures.natures[fx.natureID].IsActive = false

	dto, err := fx.service.ToggleStatus(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}
	if dto.IsActive {
		t.Error("product should be deactivated")
	}
}

func TestPermanentDeleteRetiresAllAssets(t *testing.T) {
	fx := newServiceFixture(t)
	product := seedProduct(fx,
		"https://storage.googleapis.com/test-bucket/products/images/a.webp",
		"https://storage.googleapis.com/test-bucket/products/images/b.webp",
	)
	tds := "https://storage.googleapis.com/test-bucket/products/documents/tds.pdf"
	product.TDSURL = &tds
	fx.records.products[product.ID] = product

	if err := fx.service.PermanentDeleteProduct(context.Background(), product.ID); err != nil {
		t.Fatalf("PermanentDeleteProduct: %v", err)
	}
	if _, ok := fx.records.products[product.ID]; ok {
		t.Error("record should be gone")
	}
	if deleted := fx.store.deleted(); len(deleted) != 3 {
		t.Errorf("expected 3 retired objects, got %v", deleted)
	}
}

func TestPermanentDeleteMissingProduct(t *testing.T) {
	fx := newServiceFixture(t)
	err := fx.service.PermanentDeleteProduct(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}
