package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docsecure/internal/auth"
	"docsecure/internal/model"
	"docsecure/internal/repository"
	"docsecure/internal/storage"
)

// allowedContentTypes is the upload allow-list. Anything else is rejected
// before a single byte reaches the blob store.
var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint": {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain": {},
	"text/csv":   {},
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService owns the document lifecycle. Every operation is performed
// on behalf of an authenticated actor and every branch — success, not-found,
// denial — appends exactly one audit entry before returning.
type DocumentService interface {
	// Upload validates type and size, streams the content to object storage,
	// and saves metadata. A size violation mid-stream aborts the upload and
	// removes the partial blob before the error surfaces; a DB failure rolls
	// the blob back.
	Upload(ctx context.Context, actor auth.Identity, clientIP string, r io.Reader, originalFilename, contentType string, size int64, description string) (*model.Document, error)

	// List returns the actor's own documents using limit/offset and a total count.
	List(ctx context.Context, actor auth.Identity, clientIP string, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by ID if the actor owns it.
	Get(ctx context.Context, actor auth.Identity, clientIP, id string) (*model.Document, error)

	// Delete removes an owned document from both storage and the database;
	// the database cascades the delete to the document's share links.
	Delete(ctx context.Context, actor auth.Identity, clientIP, id string) error
}

type documentService struct {
	store       storage.Storage
	repo        repository.DocumentRepository
	shares      repository.ShareRepository
	audit       AuditService
	maxFileSize int64
}

// NewDocumentService constructs a new DocumentService. maxFileSize is the
// upload ceiling in bytes.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, shares repository.ShareRepository, audit AuditService, maxFileSize int64) DocumentService {
	return &documentService{store: store, repo: repo, shares: shares, audit: audit, maxFileSize: maxFileSize}
}

func (s *documentService) Upload(ctx context.Context, actor auth.Identity, clientIP string, r io.Reader, originalFilename, contentType string, size int64, description string) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, fmt.Errorf("%w: file type %s not allowed", ErrValidation, contentType)
	}
	// Reject a declared oversize before any write.
	if size >= 0 && size > s.maxFileSize {
		return nil, fmt.Errorf("%w: file size exceeds the %d byte limit", ErrValidation, s.maxFileSize)
	}

	// Generate filename using UUID + extension; never derived from user input.
	ext := filepath.Ext(originalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	// Enforce the ceiling on the stream itself: a client may lie about (or
	// omit) the size, so count bytes as they pass through.
	cr := &ceilingReader{r: r, limit: s.maxFileSize}

	objInfo, err := s.store.Put(ctx, key, cr, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		if cr.exceeded {
			// Remove whatever partial object landed before surfacing the error.
			// A failed cleanup leaves bytes on the store, which is a storage
			// fault, not a client one.
			if delErr := s.store.Delete(ctx, key); delErr != nil {
				return nil, fmt.Errorf("remove partial upload: %w", delErr)
			}
			return nil, fmt.Errorf("%w: file size exceeds the %d byte limit", ErrValidation, s.maxFileSize)
		}
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:               uuid.New().String(),
		Filename:         genName,
		OriginalFilename: originalFilename,
		ContentType:      contentType,
		Size:             objInfo.Size,
		StoragePath:      objInfo.Key,
		OwnerID:          actor.ID,
		CreatedAt:        time.Now().UTC(),
	}
	if description != "" {
		doc.Description = &description
	}

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if _, err := s.audit.Record(ctx, AuditRecord{
		Action:       "create",
		ResourceType: "document",
		ResourceID:   stored.ID,
		Details: model.DetailFields(
			model.F("filename", stored.Filename),
			model.F("content_type", stored.ContentType),
			model.F("size", stored.Size),
		),
		UserID:    actor.ID,
		IPAddress: clientIP,
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

// List returns the actor's documents; no cross-user visibility exists.
func (s *documentService) List(ctx context.Context, actor auth.Identity, clientIP string, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.ListByOwner(ctx, actor.ID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}

	if _, err := s.audit.Record(ctx, AuditRecord{
		Action:       "list",
		ResourceType: "document",
		Details:      model.DetailFields(model.F("count", len(res.Items))),
		UserID:       actor.ID,
		IPAddress:    clientIP,
	}); err != nil {
		return nil, err
	}

	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID, auditing the not-found and denial branches as
// distinct actions.
func (s *documentService) Get(ctx context.Context, actor auth.Identity, clientIP, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, aerr := s.audit.Record(ctx, AuditRecord{
				Action:       "read_not_found",
				ResourceType: "document",
				ResourceID:   id,
				UserID:       actor.ID,
				IPAddress:    clientIP,
			}); aerr != nil {
				return nil, aerr
			}
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !auth.Owns(doc.OwnerID, actor.ID) {
		if _, aerr := s.audit.Record(ctx, AuditRecord{
			Action:       "unauthorized_access",
			ResourceType: "document",
			ResourceID:   doc.ID,
			Details:      model.DetailFields(model.F("document_owner", doc.OwnerID)),
			UserID:       actor.ID,
			IPAddress:    clientIP,
		}); aerr != nil {
			return nil, aerr
		}
		return nil, ErrForbidden
	}

	if _, err := s.audit.Record(ctx, AuditRecord{
		Action:       "read",
		ResourceType: "document",
		ResourceID:   doc.ID,
		Details:      model.DetailFields(model.F("filename", doc.Filename)),
		UserID:       actor.ID,
		IPAddress:    clientIP,
	}); err != nil {
		return nil, err
	}

	return doc, nil
}

// Delete removes an owned document from storage, then deletes its record. The
// audit snapshot is captured before anything is destroyed.
func (s *documentService) Delete(ctx context.Context, actor auth.Identity, clientIP, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, aerr := s.audit.Record(ctx, AuditRecord{
				Action:       "delete_not_found",
				ResourceType: "document",
				ResourceID:   id,
				UserID:       actor.ID,
				IPAddress:    clientIP,
			}); aerr != nil {
				return aerr
			}
			return ErrNotFound
		}
		return err
	}

	if !auth.Owns(doc.OwnerID, actor.ID) {
		if _, aerr := s.audit.Record(ctx, AuditRecord{
			Action:       "unauthorized_delete",
			ResourceType: "document",
			ResourceID:   doc.ID,
			Details:      model.DetailFields(model.F("document_owner", doc.OwnerID)),
			UserID:       actor.ID,
			IPAddress:    clientIP,
		}); aerr != nil {
			return aerr
		}
		return ErrForbidden
	}

	// Snapshot for the audit entry before the row and blob disappear. The
	// share-link count records what the DB cascade is about to remove; a
	// count failure is not worth blocking the delete over.
	fields := []model.DetailField{
		model.F("filename", doc.Filename),
		model.F("content_type", doc.ContentType),
		model.F("size", doc.Size),
	}
	if n, cerr := s.shares.CountByDocument(ctx, doc.ID); cerr == nil {
		fields = append(fields, model.F("share_links", n))
	}
	snapshot := model.DetailFields(fields...)

	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	// Delete DB row; the database cascades the delete to share_links.
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if _, err := s.audit.Record(ctx, AuditRecord{
		Action:       "delete",
		ResourceType: "document",
		ResourceID:   doc.ID,
		Details:      snapshot,
		UserID:       actor.ID,
		IPAddress:    clientIP,
	}); err != nil {
		return err
	}

	return nil
}

var errSizeExceeded = errors.New("file size exceeds limit")

// ceilingReader counts bytes as they stream through and fails the read that
// crosses the limit, so memory use and partial writes stay bounded regardless
// of the declared size.
type ceilingReader struct {
	r        io.Reader
	limit    int64
	n        int64
	exceeded bool
}

func (c *ceilingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.limit >= 0 && c.n > c.limit {
		c.exceeded = true
		return n, errSizeExceeded
	}
	return n, err
}
