package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
	"github.com/geosynthix/catalog-backend/pkg/storage/gcs"
)

// allowedContentTypes are the document formats accepted for upload.
var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Service exposes standalone document management operations.
type Service interface {
	CreateDocument(ctx context.Context, input CreateDocumentInput) (*DocumentDTO, error)
	GetDocument(ctx context.Context, documentID uuid.UUID) (*DocumentDTO, error)
	ListDocuments(ctx context.Context, filters ListFilters, params pagination.Params) (*DocumentListResult, error)
	DeleteDocument(ctx context.Context, documentID uuid.UUID) error
}

// FileInput is the uploaded document file handed over from the HTTP layer.
type FileInput struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// CreateDocumentInput holds the validated payload to create a document.
type CreateDocumentInput struct {
	Title     string
	Type      enums.DocumentType
	ProductID *uuid.UUID
	File      FileInput
}

type documentStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Create(ctx context.Context, document *models.Document) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Document, int64, error)
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
	repo  documentStore
	store objectStore
	queue cleanupQueue
	logg  *logger.Logger
}

// NewService constructs a document service instance. The cleanup queue is
// optional; without it failed file deletes are only logged.
func NewService(repo documentStore, store objectStore, queue cleanupQueue, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("document repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &service{repo: repo, store: store, queue: queue, logg: logg}, nil
}

// CreateDocument uploads the file first, then persists the record. A failed
// write compensates by deleting the fresh upload.
func (s *service) CreateDocument(ctx context.Context, input CreateDocumentInput) (*DocumentDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid document type")
	}
	if _, ok := allowedContentTypes[input.File.ContentType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "documents must be pdf, doc or docx").
			WithDetails(map[string]any{"contentType": input.File.ContentType})
	}
	if input.File.Open == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document has no content")
	}

	body, err := input.File.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "open document content")
	}
	defer func() { _ = body.Close() }()

	bucket := s.store.DefaultBucket()
	object := fileObject(input.File.Filename)
	url, err := s.store.UploadObject(ctx, bucket, object, input.File.ContentType, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "upload document").
			WithDetails(map[string]any{"object": object})
	}

	document := &models.Document{
		Title:     strings.TrimSpace(input.Title),
		Type:      input.Type,
		FileURL:   url,
		ProductID: input.ProductID,
	}

	created, err := s.repo.Create(ctx, document)
	if err != nil {
		s.rollbackUpload(ctx, bucket, object)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create document")
	}
	return NewDocumentDTO(created), nil
}

func (s *service) GetDocument(ctx context.Context, documentID uuid.UUID) (*DocumentDTO, error) {
	document, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return NewDocumentDTO(document), nil
}

func (s *service) ListDocuments(ctx context.Context, filters ListFilters, params pagination.Params) (*DocumentListResult, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}
	items := make([]DocumentDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewDocumentDTO(&rows[i]))
	}
	return &DocumentListResult{Items: items, Meta: pagination.MetaFor(params, total)}, nil
}

// DeleteDocument removes the record, then retires the remote file.
func (s *service) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	document, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, documentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete document")
	}

	s.cleanupFile(ctx, document.FileURL)
	return nil
}

func (s *service) rollbackUpload(ctx context.Context, bucket, object string) {
	detached := context.WithoutCancel(ctx)
	if err := s.store.DeleteObject(detached, bucket, object); err != nil && s.logg != nil {
		logCtx := s.logg.WithField(detached, "object", object)
		s.logg.Error(logCtx, "asset.rollback.partial", err)
	}
}

func (s *service) cleanupFile(ctx context.Context, url string) {
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

func (s *service) loadDocument(ctx context.Context, documentID uuid.UUID) (*models.Document, error) {
	document, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
	}
	return document, nil
}

func fileObject(filename string) string {
	base := strings.ToLower(strings.TrimSpace(path.Base(filename)))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" || base == "." {
		base = "document"
	}
	return fmt.Sprintf("documents/%s-%s", uuid.NewString(), base)
}
