package service

import (
	"context"
	"fmt"

	"docsecure/internal/auth"
	"docsecure/internal/model"
	"docsecure/internal/repository"
)

// AuditRecord describes one entry to append to the audit trail. Empty UserID,
// ResourceID, and IPAddress are stored as NULL; an empty UserID means the
// action was anonymous.
type AuditRecord struct {
	Action       string
	ResourceType string
	ResourceID   string
	Details      model.AuditDetails
	UserID       string
	IPAddress    string
}

// AuditService is the single write path into the audit trail and the
// read path over it. It is injected into every other service as an explicit
// dependency — never a process-wide singleton — so tests can substitute an
// in-memory recorder and assert on exact call sequences.
type AuditService interface {
	// Record durably appends one entry before returning. It is a synchronous,
	// independent commit: a failure here propagates to the caller, which
	// treats an inability to audit as seriously as an inability to perform
	// the primary action.
	Record(ctx context.Context, rec AuditRecord) (*model.AuditEntry, error)

	// List returns audit entries visible to the actor, ordered newest first.
	// Non-admins are always scoped to their own entries; admins see all and
	// may filter by user. Reading audit logs is itself an auditable action:
	// every call appends a read/audit_log entry.
	List(ctx context.Context, actor auth.Identity, clientIP string, f repository.AuditFilter, limit, offset int) ([]model.AuditEntry, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService constructs a new AuditService.
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, rec AuditRecord) (*model.AuditEntry, error) {
	entry := &model.AuditEntry{
		UserID:       nilIfEmpty(rec.UserID),
		Action:       rec.Action,
		ResourceType: rec.ResourceType,
		ResourceID:   nilIfEmpty(rec.ResourceID),
		IPAddress:    nilIfEmpty(rec.IPAddress),
	}
	if !rec.Details.IsZero() {
		d := rec.Details.String()
		entry.Details = &d
	}

	stored, err := s.repo.Insert(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("record audit entry: %w", err)
	}
	return stored, nil
}

func (s *auditService) List(ctx context.Context, actor auth.Identity, clientIP string, f repository.AuditFilter, limit, offset int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	// Non-admins only ever see their own trail, whatever filter they sent.
	if !auth.CanViewAllAuditLogs(actor) {
		f.UserID = actor.ID
	}

	entries, err := s.repo.Query(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}

	if _, err := s.Record(ctx, AuditRecord{
		Action:       "read",
		ResourceType: "audit_log",
		Details:      model.DetailText(fmt.Sprintf("Retrieved %d audit logs", len(entries))),
		UserID:       actor.ID,
		IPAddress:    clientIP,
	}); err != nil {
		return nil, err
	}

	return entries, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
