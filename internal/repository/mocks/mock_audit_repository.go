package mocks

import (
	"context"

	"docsecure/internal/model"
	"docsecure/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Insert(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditEntry), args.Error(1)
}

func (m *MockAuditRepository) Query(ctx context.Context, f repository.AuditFilter, pq repository.PageQuery) ([]model.AuditEntry, error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}
