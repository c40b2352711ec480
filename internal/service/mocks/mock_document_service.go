package mocks

import (
	"context"
	"io"

	"docsecure/internal/auth"
	"docsecure/internal/model"
	"docsecure/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, actor auth.Identity, clientIP string, r io.Reader, originalFilename, contentType string, size int64, description string) (*model.Document, error) {
	args := m.Called(ctx, actor, clientIP, r, originalFilename, contentType, size, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, actor auth.Identity, clientIP string, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, actor, clientIP, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, actor auth.Identity, clientIP, id string) (*model.Document, error) {
	args := m.Called(ctx, actor, clientIP, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, actor auth.Identity, clientIP, id string) error {
	args := m.Called(ctx, actor, clientIP, id)
	return args.Error(0)
}
