package products

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/geosynthix/catalog-backend/pkg/metrics"

	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
)

// objectStore is the object storage surface the coordinator depends on.
type objectStore interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
	DefaultBucket() string
}

// AssetInput describes one binary asset queued for upload.
type AssetInput struct {
	Kind        string
	Object      string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// UploadOutcome records one durable object for later compensation.
type UploadOutcome struct {
	URL    string
	Bucket string
	Object string
}

// Uploader pushes asset batches to the object store sequentially.
type Uploader struct {
	store   objectStore
	metrics *metrics.AssetMetrics
}

// NewUploader constructs an uploader backed by the given object store.
func NewUploader(store objectStore, m *metrics.AssetMetrics) (*Uploader, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &Uploader{store: store, metrics: m}, nil
}

// UploadAll uploads assets in order and stops at the first failure. The
// returned outcomes always cover every object made durable before the error,
// so the caller can compensate. An empty batch is a no-op.
func (u *Uploader) UploadAll(ctx context.Context, assets []AssetInput) ([]UploadOutcome, error) {
	outcomes := make([]UploadOutcome, 0, len(assets))
	for _, asset := range assets {
		outcome, err := u.uploadOne(ctx, asset)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (u *Uploader) uploadOne(ctx context.Context, asset AssetInput) (UploadOutcome, error) {
	if asset.Object == "" {
		return UploadOutcome{}, pkgerrors.New(pkgerrors.CodeValidation, "asset object name is required")
	}
	if asset.Open == nil {
		return UploadOutcome{}, pkgerrors.New(pkgerrors.CodeValidation, "asset has no content")
	}

	body, err := asset.Open()
	if err != nil {
		return UploadOutcome{}, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "open asset content")
	}
	defer func() { _ = body.Close() }()

	bucket := u.store.DefaultBucket()
	start := time.Now()
	url, err := u.store.UploadObject(ctx, bucket, asset.Object, asset.ContentType, body)
	u.metrics.ObserveUpload(asset.Kind, time.Since(start), err)
	if err != nil {
		return UploadOutcome{}, pkgerrors.Wrap(pkgerrors.CodeUpload, err, fmt.Sprintf("upload %s", asset.Kind)).
			WithDetails(map[string]any{"object": asset.Object, "kind": asset.Kind})
	}

	return UploadOutcome{URL: url, Bucket: bucket, Object: asset.Object}, nil
}
