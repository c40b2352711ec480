package mocks

import (
	"context"

	"docsecure/internal/auth"
	"docsecure/internal/model"
	"docsecure/internal/repository"
	"docsecure/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, rec service.AuditRecord) (*model.AuditEntry, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditEntry), args.Error(1)
}

func (m *MockAuditService) List(ctx context.Context, actor auth.Identity, clientIP string, f repository.AuditFilter, limit, offset int) ([]model.AuditEntry, error) {
	args := m.Called(ctx, actor, clientIP, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}
