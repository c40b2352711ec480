package mocks

import (
	"context"
	"io"
	"time"

	"docsecure/internal/auth"
	"docsecure/internal/model"
	"docsecure/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) Create(ctx context.Context, actor auth.Identity, clientIP, documentID string, expiresAt *time.Time) (*model.ShareLink, error) {
	args := m.Called(ctx, actor, clientIP, documentID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareLink), args.Error(1)
}

func (m *MockShareService) List(ctx context.Context, actor auth.Identity, clientIP string) ([]model.ShareLink, error) {
	args := m.Called(ctx, actor, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShareLink), args.Error(1)
}

func (m *MockShareService) Revoke(ctx context.Context, actor auth.Identity, clientIP, id string) error {
	args := m.Called(ctx, actor, clientIP, id)
	return args.Error(0)
}

func (m *MockShareService) ResolvePublic(ctx context.Context, clientIP, tok string) (*model.SharedDocumentInfo, error) {
	args := m.Called(ctx, clientIP, tok)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SharedDocumentInfo), args.Error(1)
}

func (m *MockShareService) ResolvePublicDownload(ctx context.Context, clientIP, tok string) (io.ReadCloser, *service.SharedFileMeta, error) {
	args := m.Called(ctx, clientIP, tok)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	if args.Get(1) == nil {
		return rc, nil, args.Error(2)
	}
	return rc, args.Get(1).(*service.SharedFileMeta), args.Error(2)
}
