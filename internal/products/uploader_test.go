package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
)

// fakeObjectStore records uploads and deletes, and can fail on demand.
type fakeObjectStore struct {
	mu        sync.Mutex
	bucket    string
	uploads   []string
	deletes   []string
	failOn    string
	deleteErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{bucket: "test-bucket"}
}

func (f *fakeObjectStore) UploadObject(_ context.Context, bucket, object, _ string, body io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && strings.Contains(object, f.failOn) {
		return "", errors.New("storage unavailable")
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, object)
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object), nil
}

func (f *fakeObjectStore) DeleteObject(_ context.Context, _, object string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, object)
	return nil
}

func (f *fakeObjectStore) DefaultBucket() string { return f.bucket }

func (f *fakeObjectStore) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

func textAsset(kind, object, content string) AssetInput {
	return AssetInput{
		Kind:        kind,
		Object:      object,
		ContentType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestUploadAllEmptyBatch(t *testing.T) {
	store := newFakeObjectStore()
	uploader, err := NewUploader(store, nil)
	if err != nil {
		t.Fatalf("NewUploader: %v", err)
	}

	outcomes, err := uploader.UploadAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("UploadAll: %v", err)
	}
	if len(outcomes) != 0 || len(store.uploads) != 0 {
		t.Errorf("empty batch touched the store: %v", store.uploads)
	}
}

func TestUploadAllSequentialOutcomes(t *testing.T) {
	store := newFakeObjectStore()
	uploader, _ := NewUploader(store, nil)

	assets := []AssetInput{
		textAsset("image", "products/images/one.webp", "a"),
		textAsset("image", "products/images/two.webp", "b"),
		textAsset("brochure", "products/documents/spec.pdf", "c"),
	}

	outcomes, err := uploader.UploadAll(context.Background(), assets)
	if err != nil {
		t.Fatalf("UploadAll: %v", err)
	}
	if len(outcomes) != len(assets) {
		t.Fatalf("expected %d outcomes, got %d", len(assets), len(outcomes))
	}
	for i, outcome := range outcomes {
		if outcome.Object != assets[i].Object {
			t.Errorf("outcome %d object = %q, want %q", i, outcome.Object, assets[i].Object)
		}
		if outcome.Bucket != "test-bucket" {
			t.Errorf("outcome %d bucket = %q", i, outcome.Bucket)
		}
		if !strings.HasSuffix(outcome.URL, outcome.Object) {
			t.Errorf("outcome %d url %q does not reference object", i, outcome.URL)
		}
	}
}

func TestUploadAllStopsAtFirstFailure(t *testing.T) {
	store := newFakeObjectStore()
	store.failOn = "two"
	uploader, _ := NewUploader(store, nil)

	assets := []AssetInput{
		textAsset("image", "products/images/one.webp", "a"),
		textAsset("image", "products/images/two.webp", "b"),
		textAsset("image", "products/images/three.webp", "c"),
	}

	outcomes, err := uploader.UploadAll(context.Background(), assets)
	assertCode(t, err, pkgerrors.CodeUpload)
	if len(outcomes) != 1 {
		t.Fatalf("expected the single durable outcome, got %d", len(outcomes))
	}
	if outcomes[0].Object != "products/images/one.webp" {
		t.Errorf("unexpected outcome %q", outcomes[0].Object)
	}
	if len(store.uploads) != 1 {
		t.Errorf("upload should stop at first failure, store saw %v", store.uploads)
	}
}

func TestUploadAllOpenFailure(t *testing.T) {
	store := newFakeObjectStore()
	uploader, _ := NewUploader(store, nil)

	assets := []AssetInput{{
		Kind:        "image",
		Object:      "products/images/broken.webp",
		ContentType: "image/webp",
		Open:        func() (io.ReadCloser, error) { return nil, errors.New("stream gone") },
	}}

	outcomes, err := uploader.UploadAll(context.Background(), assets)
	assertCode(t, err, pkgerrors.CodeUpload)
	if len(outcomes) != 0 {
		t.Errorf("nothing was durable, got outcomes %v", outcomes)
	}
}

func TestUploadAllRejectsUnnamedAsset(t *testing.T) {
	store := newFakeObjectStore()
	uploader, _ := NewUploader(store, nil)

	_, err := uploader.UploadAll(context.Background(), []AssetInput{textAsset("image", "", "a")})
	assertCode(t, err, pkgerrors.CodeValidation)
}
