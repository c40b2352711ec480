package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"docsecure/internal/auth"
	"docsecure/internal/model"
	"docsecure/internal/repository"
	"docsecure/internal/storage"
	"docsecure/internal/token"
)

// publicNotFoundMsg is the single reason recorded for every failed public
// lookup. Absent, revoked, and expired tokens are deliberately
// indistinguishable to prevent enumeration.
const publicNotFoundMsg = "not found or expired"

// errShareUnusable is internal to the public lookup path; it never escapes
// the service.
var errShareUnusable = errors.New("share link unusable")

// SharedFileMeta carries the response metadata for a public download.
type SharedFileMeta struct {
	OriginalFilename string
	ContentType      string
	Size             int64
}

// ShareService owns the share-link lifecycle: creation by a document's owner,
// listing, revocation, and unauthenticated resolution by token. As with
// documents, every branch appends exactly one audit entry.
type ShareService interface {
	// Create issues a new share link for an owned document. With no explicit
	// expiry the link expires seven days after creation.
	Create(ctx context.Context, actor auth.Identity, clientIP, documentID string, expiresAt *time.Time) (*model.ShareLink, error)

	// List returns the actor's active share links; revoked links are excluded
	// but never deleted.
	List(ctx context.Context, actor auth.Identity, clientIP string) ([]model.ShareLink, error)

	// Revoke deactivates a share link created by the actor. The row survives
	// with is_active false and every other field frozen.
	Revoke(ctx context.Context, actor auth.Identity, clientIP, id string) error

	// ResolvePublic resolves a share token anonymously into the public
	// document projection.
	ResolvePublic(ctx context.Context, clientIP, tok string) (*model.SharedDocumentInfo, error)

	// ResolvePublicDownload resolves a share token anonymously into the raw
	// blob content plus response metadata. The caller must close the reader.
	ResolvePublicDownload(ctx context.Context, clientIP, tok string) (io.ReadCloser, *SharedFileMeta, error)
}

type shareService struct {
	shares repository.ShareRepository
	docs   repository.DocumentRepository
	users  repository.UserRepository
	store  storage.Storage
	audit  AuditService
}

// NewShareService constructs a new ShareService.
func NewShareService(shares repository.ShareRepository, docs repository.DocumentRepository, users repository.UserRepository, store storage.Storage, audit AuditService) ShareService {
	return &shareService{shares: shares, docs: docs, users: users, store: store, audit: audit}
}

func (s *shareService) Create(ctx context.Context, actor auth.Identity, clientIP, documentID string, expiresAt *time.Time) (*model.ShareLink, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}

	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A missing document is audited through the same unauthorized_share
			// action as an ownership failure, with a null owner. The two cases
			// are intentionally not distinguished in the trail.
			if _, aerr := s.audit.Record(ctx, AuditRecord{
				Action:       "unauthorized_share",
				ResourceType: "share",
				ResourceID:   documentID,
				Details:      model.DetailFields(model.F("document_owner", nil)),
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
			Action:       "unauthorized_share",
			ResourceType: "share",
			ResourceID:   doc.ID,
			Details:      model.DetailFields(model.F("document_owner", doc.OwnerID)),
			UserID:       actor.ID,
			IPAddress:    clientIP,
		}); aerr != nil {
			return nil, aerr
		}
		return nil, ErrForbidden
	}

	tok, err := token.Generate()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if expiresAt == nil {
		exp := token.DefaultExpiry(now)
		expiresAt = &exp
	}

	link := &model.ShareLink{
		ID:         uuid.New().String(),
		Token:      tok,
		DocumentID: doc.ID,
		CreatedBy:  actor.ID,
		CreatedAt:  now,
		ExpiresAt:  expiresAt,
		IsActive:   true,
	}
	stored, err := s.shares.Create(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// Only the token prefix ever reaches the audit trail; a logged full token
	// would itself grant access.
	if _, err := s.audit.Record(ctx, AuditRecord{
		Action:       "create",
		ResourceType: "share",
		ResourceID:   stored.ID,
		Details: model.DetailFields(
			model.F("document_id", stored.DocumentID),
			model.F("expires_at", stored.ExpiresAt),
			model.F("token", token.Prefix(stored.Token)),
		),
		UserID:    actor.ID,
		IPAddress: clientIP,
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

func (s *shareService) List(ctx context.Context, actor auth.Identity, clientIP string) ([]model.ShareLink, error) {
	links, err := s.shares.ListActiveByCreator(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.audit.Record(ctx, AuditRecord{
		Action:       "list",
		ResourceType: "share",
		Details:      model.DetailFields(model.F("count", len(links))),
		UserID:       actor.ID,
		IPAddress:    clientIP,
	}); err != nil {
		return nil, err
	}

	return links, nil
}

func (s *shareService) Revoke(ctx context.Context, actor auth.Identity, clientIP, id string) error {
	if id == "" {
		return ErrIDRequired
	}

	link, err := s.shares.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if !auth.Owns(link.CreatedBy, actor.ID) {
		if _, aerr := s.audit.Record(ctx, AuditRecord{
			Action:       "unauthorized_delete",
			ResourceType: "share",
			ResourceID:   link.ID,
			Details:      model.DetailFields(model.F("share_owner", link.CreatedBy)),
			UserID:       actor.ID,
			IPAddress:    clientIP,
		}); aerr != nil {
			return aerr
		}
		return ErrForbidden
	}

	// Snapshot before the flag flips; the token itself stays out of the trail.
	snapshot := model.DetailFields(
		model.F("document_id", link.DocumentID),
		model.F("token_prefix", token.Prefix(link.Token)),
	)

	if err := s.shares.Deactivate(ctx, id); err != nil {
		return err
	}

	if _, err := s.audit.Record(ctx, AuditRecord{
		Action:       "delete",
		ResourceType: "share",
		ResourceID:   link.ID,
		Details:      snapshot,
		UserID:       actor.ID,
		IPAddress:    clientIP,
	}); err != nil {
		return err
	}

	return nil
}

func (s *shareService) ResolvePublic(ctx context.Context, clientIP, tok string) (*model.SharedDocumentInfo, error) {
	link, doc, err := s.lookupUsable(ctx, tok)
	if err != nil {
		if errors.Is(err, errShareUnusable) {
			return nil, s.auditUnusable(ctx, "invalid_share_access", clientIP, tok)
		}
		return nil, err
	}

	creator, err := s.users.FindByID(ctx, link.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("resolve share creator: %w", err)
	}

	if _, err := s.audit.Record(ctx, AuditRecord{
		Action:       "access",
		ResourceType: "share",
		ResourceID:   link.ID,
		Details: model.DetailFields(
			model.F("document_id", doc.ID),
			model.F("document_name", doc.OriginalFilename),
		),
		UserID:    link.CreatedBy,
		IPAddress: clientIP,
	}); err != nil {
		return nil, err
	}

	return &model.SharedDocumentInfo{
		ID:               doc.ID,
		OriginalFilename: doc.OriginalFilename,
		ContentType:      doc.ContentType,
		Description:      doc.Description,
		SharedBy:         creator.Username,
		CreatedAt:        doc.CreatedAt,
	}, nil
}

func (s *shareService) ResolvePublicDownload(ctx context.Context, clientIP, tok string) (io.ReadCloser, *SharedFileMeta, error) {
	link, doc, err := s.lookupUsable(ctx, tok)
	if err != nil {
		if errors.Is(err, errShareUnusable) {
			return nil, nil, s.auditUnusable(ctx, "invalid_share_download", clientIP, tok)
		}
		return nil, nil, err
	}

	rc, info, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch blob: %w", err)
	}

	if _, err := s.audit.Record(ctx, AuditRecord{
		Action:       "download",
		ResourceType: "share",
		ResourceID:   link.ID,
		Details: model.DetailFields(
			model.F("document_id", doc.ID),
			model.F("document_name", doc.OriginalFilename),
		),
		UserID:    link.CreatedBy,
		IPAddress: clientIP,
	}); err != nil {
		rc.Close()
		return nil, nil, err
	}

	size := info.Size
	if size <= 0 {
		size = doc.Size
	}
	return rc, &SharedFileMeta{
		OriginalFilename: doc.OriginalFilename,
		ContentType:      doc.ContentType,
		Size:             size,
	}, nil
}

// lookupUsable resolves a token to a usable link and its document. Absent,
// revoked, and expired links all collapse into errShareUnusable; usability is
// evaluated against the current time on every call, never cached.
func (s *shareService) lookupUsable(ctx context.Context, tok string) (*model.ShareLink, *model.Document, error) {
	link, err := s.shares.FindByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, errShareUnusable
		}
		return nil, nil, err
	}
	if !link.IsUsable(time.Now().UTC()) {
		return nil, nil, errShareUnusable
	}

	doc, err := s.docs.FindByID(ctx, link.DocumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, errShareUnusable
		}
		return nil, nil, err
	}
	return link, doc, nil
}

// auditUnusable records the anonymous failure and returns the single
// indistinguishable not-found error.
func (s *shareService) auditUnusable(ctx context.Context, action, clientIP, tok string) error {
	if _, err := s.audit.Record(ctx, AuditRecord{
		Action:       action,
		ResourceType: "share",
		ResourceID:   token.Prefix(tok),
		Details:      model.DetailFields(model.F("reason", publicNotFoundMsg)),
		IPAddress:    clientIP,
	}); err != nil {
		return err
	}
	return fmt.Errorf("%w: share link %s", ErrNotFound, publicNotFoundMsg)
}
