package mocks

import (
	"context"

	"docsecure/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(ctx context.Context, link *model.ShareLink) (*model.ShareLink, error) {
	args := m.Called(ctx, link)
	if f, ok := args.Get(0).(func(context.Context, *model.ShareLink) *model.ShareLink); ok {
		return f(ctx, link), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareLink), args.Error(1)
}

func (m *MockShareRepository) FindByID(ctx context.Context, id string) (*model.ShareLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareLink), args.Error(1)
}

func (m *MockShareRepository) FindByToken(ctx context.Context, tok string) (*model.ShareLink, error) {
	args := m.Called(ctx, tok)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareLink), args.Error(1)
}

func (m *MockShareRepository) ListActiveByCreator(ctx context.Context, creatorID string) ([]model.ShareLink, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShareLink), args.Error(1)
}

func (m *MockShareRepository) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShareRepository) CountByDocument(ctx context.Context, documentID string) (int, error) {
	args := m.Called(ctx, documentID)
	return args.Int(0), args.Error(1)
}
