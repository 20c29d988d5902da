package natures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

type fakeNatureStore struct {
	natures        map[uuid.UUID]*models.Nature
	activeProducts map[uuid.UUID]int64
	createErr      error
	updateErr      error
}

func newFakeNatureStore() *fakeNatureStore {
	return &fakeNatureStore{
		natures:        make(map[uuid.UUID]*models.Nature),
		activeProducts: make(map[uuid.UUID]int64),
	}
}

func (f *fakeNatureStore) FindByID(_ context.Context, id uuid.UUID) (*models.Nature, error) {
	nature, ok := f.natures[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *nature
	return &clone, nil
}

func (f *fakeNatureStore) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Nature, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return f.FindByID(ctx, id)
	}
	for _, nature := range f.natures {
		if nature.Slug == idOrSlug {
			clone := *nature
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeNatureStore) List(_ context.Context, _ ListFilters, _ pagination.Params) ([]models.Nature, int64, error) {
	rows := make([]models.Nature, 0, len(f.natures))
	for _, nature := range f.natures {
		rows = append(rows, *nature)
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeNatureStore) Create(_ context.Context, nature *models.Nature) (*models.Nature, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if nature.ID == uuid.Nil {
		nature.ID = uuid.New()
	}
	clone := *nature
	f.natures[nature.ID] = &clone
	return nature, nil
}

func (f *fakeNatureStore) Update(_ context.Context, nature *models.Nature) (*models.Nature, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	clone := *nature
	f.natures[nature.ID] = &clone
	return nature, nil
}

func (f *fakeNatureStore) CountActiveProducts(_ context.Context, natureID uuid.UUID) (int64, error) {
	return f.activeProducts[natureID], nil
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

type fakeObjectStore struct {
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
}

func (f *fakeObjectStore) UploadObject(_ context.Context, bucket, object, _ string, body io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, object)
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object), nil
}

func (f *fakeObjectStore) DeleteObject(_ context.Context, _, object string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, object)
	return nil
}

func (f *fakeObjectStore) DefaultBucket() string { return "test-bucket" }

type fakeCleanupQueue struct {
	enqueued []string
}

func (f *fakeCleanupQueue) EnqueueDelete(_ context.Context, url string) error {
	f.enqueued = append(f.enqueued, url)
	return nil
}

type natureFixture struct {
	service Service
	records *fakeNatureStore
	store   *fakeObjectStore
	queue   *fakeCleanupQueue
	plants  *fakePlantLoader
	plantID uuid.UUID
}

func newNatureFixture(t *testing.T) *natureFixture {
	t.Helper()
	plantID := uuid.New()
	plants := &fakePlantLoader{plants: map[uuid.UUID]*models.Plant{
		plantID: {ID: plantID, IsActive: true},
	}}
	records := newFakeNatureStore()
	store := &fakeObjectStore{}
	queue := &fakeCleanupQueue{}

	svc, err := NewService(records, plants, store, queue, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &natureFixture{service: svc, records: records, store: store, queue: queue, plants: plants, plantID: plantID}
}

func imageFile() *FileInput {
	return &FileInput{
		Filename:    "category.webp",
		ContentType: "image/webp",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("payload")), nil
		},
	}
}

func seedNature(fx *natureFixture, active bool, imageURL *string) *models.Nature {
	nature := &models.Nature{
		ID:       uuid.New(),
		Name:     "Geotextiles",
		Slug:     "geotextiles",
		PlantID:  fx.plantID,
		IsActive: active,
		ImageURL: imageURL,
	}
	fx.records.natures[nature.ID] = nature
	return nature
}

func TestCreateNatureWithImage(t *testing.T) {
	fx := newNatureFixture(t)

	dto, err := fx.service.CreateNature(context.Background(), CreateNatureInput{
		Name:        "Geotextiles",
		Slug:        "geotextiles",
		PlantID:     fx.plantID,
		Description: "Woven and nonwoven geotextiles",
		Image:       imageFile(),
	})
	if err != nil {
		t.Fatalf("CreateNature: %v", err)
	}
	if dto.ImageURL == nil || !strings.Contains(*dto.ImageURL, "natures/images/") {
		t.Errorf("image url not set: %v", dto.ImageURL)
	}
	if len(fx.store.uploads) != 1 {
		t.Errorf("expected one upload, got %v", fx.store.uploads)
	}
}

func TestCreateNatureRollsBackImageOnWriteFailure(t *testing.T) {
	fx := newNatureFixture(t)
	fx.records.createErr = errors.New("connection reset")

	_, err := fx.service.CreateNature(context.Background(), CreateNatureInput{
		Name:    "Geotextiles",
		Slug:    "geotextiles",
		PlantID: fx.plantID,
		Image:   imageFile(),
	})
	assertCode(t, err, pkgerrors.CodeDependency)
	if len(fx.store.deletes) != 1 {
		t.Fatalf("fresh upload must be rolled back, got %v", fx.store.deletes)
	}
}

func TestCreateNatureUnknownPlant(t *testing.T) {
	fx := newNatureFixture(t)

	_, err := fx.service.CreateNature(context.Background(), CreateNatureInput{
		Name:    "Geotextiles",
		Slug:    "geotextiles",
		PlantID: uuid.New(),
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
	if len(fx.store.uploads) != 0 {
		t.Error("validation must run before any upload")
	}
}

func TestCreateNatureInactivePlant(t *testing.T) {
	fx := newNatureFixture(t)
	fx.plants.plants[fx.plantID].IsActive = false

	_, err := fx.service.CreateNature(context.Background(), CreateNatureInput{
		Name:    "Geotextiles",
		Slug:    "geotextiles",
		PlantID: fx.plantID,
		Image:   imageFile(),
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
	if len(fx.store.uploads) != 0 {
		t.Error("an inactive plant must be rejected before any upload")
	}
}

func TestUpdateNatureRetiresReplacedImage(t *testing.T) {
	fx := newNatureFixture(t)
	old := "https://storage.googleapis.com/test-bucket/natures/images/old.webp"
	nature := seedNature(fx, true, &old)

	dto, err := fx.service.UpdateNature(context.Background(), nature.ID, UpdateNatureInput{
		Image: imageFile(),
	})
	if err != nil {
		t.Fatalf("UpdateNature: %v", err)
	}
	if dto.ImageURL == nil || *dto.ImageURL == old {
		t.Error("image url not replaced")
	}
	found := false
	for _, deleted := range fx.store.deletes {
		if deleted == "natures/images/old.webp" {
			found = true
		}
	}
	if !found {
		t.Errorf("replaced image must be retired, deletes: %v", fx.store.deletes)
	}
}

func TestUpdateNatureEnqueuesFailedCleanup(t *testing.T) {
	fx := newNatureFixture(t)
	old := "https://storage.googleapis.com/test-bucket/natures/images/old.webp"
	nature := seedNature(fx, true, &old)
	fx.store.deleteErr = errors.New("storage unavailable")

	_, err := fx.service.UpdateNature(context.Background(), nature.ID, UpdateNatureInput{
		Image: imageFile(),
	})
	if err != nil {
		t.Fatalf("cleanup failures must not surface: %v", err)
	}
	if len(fx.queue.enqueued) != 1 || fx.queue.enqueued[0] != old {
		t.Fatalf("failed delete must be enqueued, got %v", fx.queue.enqueued)
	}
}

func TestSoftDeleteNatureBlockedByProducts(t *testing.T) {
	fx := newNatureFixture(t)
	nature := seedNature(fx, true, nil)
	fx.records.activeProducts[nature.ID] = 3

	err := fx.service.SoftDeleteNature(context.Background(), nature.ID)
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestToggleNatureActivationRequiresActivePlant(t *testing.T) {
	fx := newNatureFixture(t)
	nature := seedNature(fx, false, nil)
	fx.plants.plants[fx.plantID].IsActive = false

	_, err := fx.service.ToggleStatus(context.Background(), nature.ID)
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestGetNatureHidesInactive(t *testing.T) {
	fx := newNatureFixture(t)
	nature := seedNature(fx, false, nil)

	_, err := fx.service.GetNature(context.Background(), nature.ID.String())
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
