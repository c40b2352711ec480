package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"docsecure/internal/model"
	repoMocks "docsecure/internal/repository/mocks"
	"docsecure/internal/storage"
	storeMocks "docsecure/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type shareMocks struct {
	shares *repoMocks.MockShareRepository
	docs   *repoMocks.MockDocumentRepository
	users  *repoMocks.MockUserRepository
	store  *storeMocks.MockStorage
	audit  *mockRecorder
}

func newShareService(t *testing.T) (ShareService, *shareMocks) {
	t.Helper()
	m := &shareMocks{
		shares: new(repoMocks.MockShareRepository),
		docs:   new(repoMocks.MockDocumentRepository),
		users:  new(repoMocks.MockUserRepository),
		store:  new(storeMocks.MockStorage),
		audit:  new(mockRecorder),
	}
	svc := NewShareService(m.shares, m.docs, m.users, m.store, m.audit)
	return svc, m
}

func (m *shareMocks) assertExpectations(t *testing.T) {
	m.shares.AssertExpectations(t)
	m.docs.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.store.AssertExpectations(t)
	m.audit.AssertExpectations(t)
}

func TestShareService_Create(t *testing.T) {
	ctx := context.Background()
	ownedDoc := &model.Document{ID: "doc-1", OriginalFilename: "report.pdf", OwnerID: "user-a"}

	t.Run("happy path with default expiry", func(t *testing.T) {
		svc, m := newShareService(t)
		var issuedToken string

		m.docs.On("FindByID", ctx, "doc-1").Return(ownedDoc, nil)
		m.shares.On("Create", ctx, mock.MatchedBy(func(link *model.ShareLink) bool {
			return link.DocumentID == "doc-1" &&
				link.CreatedBy == "user-a" &&
				link.IsActive &&
				len(link.Token) == 32 &&
				link.ExpiresAt != nil
		})).Return(func(ctx context.Context, link *model.ShareLink) *model.ShareLink {
			issuedToken = link.Token
			return link
		}, nil)
		m.audit.On("Record", ctx, mock.MatchedBy(func(rec AuditRecord) bool {
			d := rec.Details.String()
			return rec.Action == "create" && rec.ResourceType == "share" &&
				strings.Contains(d, "document_id=doc-1") &&
				// The trail carries an 8-char prefix, never the full token.
				strings.Contains(d, "token="+issuedToken[:8]) &&
				!strings.Contains(d, issuedToken)
		})).Return(&model.AuditEntry{ID: "audit-id"}, nil)

		link, err := svc.Create(ctx, actorA, testIP, "doc-1", nil)

		require.NoError(t, err)
		assert.Len(t, link.Token, 32)
		assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), *link.ExpiresAt, time.Second)
		m.assertExpectations(t)
	})

	t.Run("explicit expiry is preserved", func(t *testing.T) {
		svc, m := newShareService(t)
		exp := time.Now().UTC().Add(time.Hour)

		m.docs.On("FindByID", ctx, "doc-1").Return(ownedDoc, nil)
		m.shares.On("Create", ctx, mock.Anything).Return(func(ctx context.Context, link *model.ShareLink) *model.ShareLink {
			return link
		}, nil)
		m.audit.expectRecord("create", "share")

		link, err := svc.Create(ctx, actorA, testIP, "doc-1", &exp)

		require.NoError(t, err)
		assert.Equal(t, exp, *link.ExpiresAt)
	})

	t.Run("missing document audited as unauthorized_share with null owner", func(t *testing.T) {
		svc, m := newShareService(t)

		m.docs.On("FindByID", ctx, "nope").Return(nil, sql.ErrNoRows)
		m.audit.On("Record", ctx, mock.MatchedBy(func(rec AuditRecord) bool {
			return rec.Action == "unauthorized_share" && rec.ResourceType == "share" &&
				rec.Details.String() == "document_owner=null"
		})).Return(&model.AuditEntry{ID: "audit-id"}, nil).Once()

		link, err := svc.Create(ctx, actorA, testIP, "nope", nil)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, link)
		m.assertExpectations(t)
	})

	t.Run("non-owner audited as unauthorized_share", func(t *testing.T) {
		svc, m := newShareService(t)

		m.docs.On("FindByID", ctx, "doc-1").Return(ownedDoc, nil)
		m.audit.On("Record", ctx, mock.MatchedBy(func(rec AuditRecord) bool {
			return rec.Action == "unauthorized_share" &&
				rec.Details.String() == "document_owner=user-a" &&
				rec.UserID == "user-b"
		})).Return(&model.AuditEntry{ID: "audit-id"}, nil).Once()

		link, err := svc.Create(ctx, actorB, testIP, "doc-1", nil)

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, link)
		m.shares.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("validation - empty document id", func(t *testing.T) {
		svc, _ := newShareService(t)

		_, err := svc.Create(ctx, actorA, testIP, "", nil)
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestShareService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns active links and audits count", func(t *testing.T) {
		svc, m := newShareService(t)

		m.shares.On("ListActiveByCreator", ctx, "user-a").
			Return([]model.ShareLink{{ID: "s1", IsActive: true}, {ID: "s2", IsActive: true}}, nil)
		m.audit.On("Record", ctx, mock.MatchedBy(func(rec AuditRecord) bool {
			return rec.Action == "list" && rec.ResourceType == "share" &&
				rec.Details.String() == "count=2"
		})).Return(&model.AuditEntry{ID: "audit-id"}, nil)

		links, err := svc.List(ctx, actorA, testIP)

		assert.NoError(t, err)
		assert.Len(t, links, 2)
		m.assertExpectations(t)
	})

	t.Run("repository error skips audit", func(t *testing.T) {
		svc, m := newShareService(t)

		m.shares.On("ListActiveByCreator", ctx, "user-a").Return(nil, errors.New("db fail"))

		_, err := svc.List(ctx, actorA, testIP)
		assert.Error(t, err)
		m.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})
}

func TestShareService_Revoke(t *testing.T) {
	ctx := context.Background()
	link := &model.ShareLink{ID: "share-1", Token: "AAAABBBBCCCCDDDDEEEEFFFFGGGGHHHH", DocumentID: "doc-1", CreatedBy: "user-a", IsActive: true}

	t.Run("creator revokes with pre-mutation snapshot", func(t *testing.T) {
		svc, m := newShareService(t)

		m.shares.On("FindByID", ctx, "share-1").Return(link, nil)
		m.shares.On("Deactivate", ctx, "share-1").Return(nil)
		m.audit.On("Record", ctx, mock.MatchedBy(func(rec AuditRecord) bool {
			return rec.Action == "delete" && rec.ResourceType == "share" &&
				rec.Details.String() == "document_id=doc-1 token_prefix=AAAABBBB"
		})).Return(&model.AuditEntry{ID: "audit-id"}, nil)

		err := svc.Revoke(ctx, actorA, testIP, "share-1")

		assert.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("not found is not audited", func(t *testing.T) {
		svc, m := newShareService(t)

		m.shares.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		err := svc.Revoke(ctx, actorA, testIP, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		m.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("non-creator denied with unauthorized_delete audit", func(t *testing.T) {
		svc, m := newShareService(t)

		m.shares.On("FindByID", ctx, "share-1").Return(link, nil)
		m.audit.On("Record", ctx, mock.MatchedBy(func(rec AuditRecord) bool {
			return rec.Action == "unauthorized_delete" && rec.ResourceType == "share" &&
				rec.Details.String() == "share_owner=user-a" &&
				rec.UserID == "user-b"
		})).Return(&model.AuditEntry{ID: "audit-id"}, nil).Once()

		err := svc.Revoke(ctx, actorB, testIP, "share-1")

		assert.ErrorIs(t, err, ErrForbidden)
		m.shares.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
	})
}

func TestShareService_ResolvePublic(t *testing.T) {
	ctx := context.Background()
	futureExp := time.Now().UTC().Add(time.Hour)
	pastExp := time.Now().UTC().Add(-time.Second)
	doc := &model.Document{ID: "doc-1", OriginalFilename: "report.pdf", ContentType: "application/pdf", StoragePath: "documents/ab12.pdf", OwnerID: "user-a", CreatedAt: time.Now().UTC()}

	usable := &model.ShareLink{ID: "share-1", Token: "AAAABBBBCCCCDDDDEEEEFFFFGGGGHHHH", DocumentID: "doc-1", CreatedBy: "user-a", ExpiresAt: &futureExp, IsActive: true}

	t.Run("usable token resolves to public projection", func(t *testing.T) {
		svc, m := newShareService(t)

		m.shares.On("FindByToken", ctx, usable.Token).Return(usable, nil)
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.users.On("FindByID", ctx, "user-a").Return(&model.User{ID: "user-a", Username: "alice"}, nil)
		m.audit.On("Record", ctx, mock.MatchedBy(func(rec AuditRecord) bool {
			return rec.Action == "access" && rec.ResourceType == "share" &&
				rec.UserID == "user-a" && // attributed to the link creator
				rec.Details.String() == "document_id=doc-1 document_name=report.pdf"
		})).Return(&model.AuditEntry{ID: "audit-id"}, nil)

		info, err := svc.ResolvePublic(ctx, testIP, usable.Token)

		require.NoError(t, err)
		assert.Equal(t, "report.pdf", info.OriginalFilename)
		assert.Equal(t, "alice", info.SharedBy)
		m.assertExpectations(t)
	})

	expectInvalidAccess := func(m *shareMocks, tokenPrefix string) {
		m.audit.On("Record", mock.Anything, mock.MatchedBy(func(rec AuditRecord) bool {
			return rec.Action == "invalid_share_access" && rec.ResourceType == "share" &&
				rec.ResourceID == tokenPrefix &&
				rec.UserID == "" && // anonymous
				rec.Details.String() == "reason=not found or expired"
		})).Return(&model.AuditEntry{ID: "audit-id"}, nil).Once()
	}

	t.Run("unknown token", func(t *testing.T) {
		svc, m := newShareService(t)

		m.shares.On("FindByToken", ctx, "ZZZZYYYYXXXXWWWWVVVVUUUUTTTTSSSS").Return(nil, sql.ErrNoRows)
		expectInvalidAccess(m, "ZZZZYYYY")

		info, err := svc.ResolvePublic(ctx, testIP, "ZZZZYYYYXXXXWWWWVVVVUUUUTTTTSSSS")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, info)
		m.assertExpectations(t)
	})

	t.Run("expired token indistinguishable from unknown", func(t *testing.T) {
		svc, m := newShareService(t)
		expired := &model.ShareLink{ID: "share-2", Token: "AAAABBBBCCCCDDDDEEEEFFFFGGGGHHHH", DocumentID: "doc-1", CreatedBy: "user-a", ExpiresAt: &pastExp, IsActive: true}

		m.shares.On("FindByToken", ctx, expired.Token).Return(expired, nil)
		expectInvalidAccess(m, "AAAABBBB")

		_, errExpired := svc.ResolvePublic(ctx, testIP, expired.Token)

		svc2, m2 := newShareService(t)
		m2.shares.On("FindByToken", ctx, "ZZZZYYYYXXXXWWWWVVVVUUUUTTTTSSSS").Return(nil, sql.ErrNoRows)
		expectInvalidAccess(m2, "ZZZZYYYY")

		_, errUnknown := svc2.ResolvePublic(ctx, testIP, "ZZZZYYYYXXXXWWWWVVVVUUUUTTTTSSSS")

		assert.ErrorIs(t, errExpired, ErrNotFound)
		assert.ErrorIs(t, errUnknown, ErrNotFound)
		assert.Equal(t, errExpired.Error(), errUnknown.Error())
	})

	t.Run("revoked token is unusable", func(t *testing.T) {
		svc, m := newShareService(t)
		revoked := &model.ShareLink{ID: "share-3", Token: "AAAABBBBCCCCDDDDEEEEFFFFGGGGHHHH", DocumentID: "doc-1", CreatedBy: "user-a", ExpiresAt: &futureExp, IsActive: false}

		m.shares.On("FindByToken", ctx, revoked.Token).Return(revoked, nil)
		expectInvalidAccess(m, "AAAABBBB")

		_, err := svc.ResolvePublic(ctx, testIP, revoked.Token)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestShareService_ResolvePublicDownload(t *testing.T) {
	ctx := context.Background()
	futureExp := time.Now().UTC().Add(time.Hour)
	doc := &model.Document{ID: "doc-1", OriginalFilename: "report.pdf", ContentType: "application/pdf", Size: 11, StoragePath: "documents/ab12.pdf", OwnerID: "user-a"}
	usable := &model.ShareLink{ID: "share-1", Token: "AAAABBBBCCCCDDDDEEEEFFFFGGGGHHHH", DocumentID: "doc-1", CreatedBy: "user-a", ExpiresAt: &futureExp, IsActive: true}

	t.Run("usable token streams the blob", func(t *testing.T) {
		svc, m := newShareService(t)
		content := io.NopCloser(strings.NewReader("hello world"))

		m.shares.On("FindByToken", ctx, usable.Token).Return(usable, nil)
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.store.On("Get", ctx, "documents/ab12.pdf").
			Return(content, storage.ObjectInfo{Key: "documents/ab12.pdf", Size: 11, ContentType: "application/pdf"}, nil)
		m.audit.On("Record", ctx, mock.MatchedBy(func(rec AuditRecord) bool {
			return rec.Action == "download" && rec.ResourceType == "share"
		})).Return(&model.AuditEntry{ID: "audit-id"}, nil)

		rc, meta, err := svc.ResolvePublicDownload(ctx, testIP, usable.Token)

		require.NoError(t, err)
		defer rc.Close()
		assert.Equal(t, "report.pdf", meta.OriginalFilename)
		assert.Equal(t, "application/pdf", meta.ContentType)
		assert.Equal(t, int64(11), meta.Size)

		b, _ := io.ReadAll(rc)
		assert.Equal(t, "hello world", string(b))
		m.assertExpectations(t)
	})

	t.Run("invalid token audited as invalid_share_download", func(t *testing.T) {
		svc, m := newShareService(t)

		m.shares.On("FindByToken", ctx, "ZZZZYYYYXXXXWWWWVVVVUUUUTTTTSSSS").Return(nil, sql.ErrNoRows)
		m.audit.On("Record", ctx, mock.MatchedBy(func(rec AuditRecord) bool {
			return rec.Action == "invalid_share_download" && rec.ResourceType == "share" &&
				rec.ResourceID == "ZZZZYYYY"
		})).Return(&model.AuditEntry{ID: "audit-id"}, nil).Once()

		rc, meta, err := svc.ResolvePublicDownload(ctx, testIP, "ZZZZYYYYXXXXWWWWVVVVUUUUTTTTSSSS")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, rc)
		assert.Nil(t, meta)
		m.assertExpectations(t)
	})

	t.Run("blob fetch failure surfaces as store failure", func(t *testing.T) {
		svc, m := newShareService(t)

		m.shares.On("FindByToken", ctx, usable.Token).Return(usable, nil)
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.store.On("Get", ctx, "documents/ab12.pdf").
			Return(nil, storage.ObjectInfo{}, errors.New("storage down"))

		_, _, err := svc.ResolvePublicDownload(ctx, testIP, usable.Token)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		m.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})
}
