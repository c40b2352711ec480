package service

import (
	"context"

	"docsecure/internal/auth"
	"docsecure/internal/model"
	"docsecure/internal/repository"
	"github.com/stretchr/testify/mock"
)

// mockRecorder substitutes the audit dependency in service tests so each test
// can assert on the exact entries a branch produces.
type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, rec AuditRecord) (*model.AuditEntry, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditEntry), args.Error(1)
}

func (m *mockRecorder) List(ctx context.Context, actor auth.Identity, clientIP string, f repository.AuditFilter, limit, offset int) ([]model.AuditEntry, error) {
	args := m.Called(ctx, actor, clientIP, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}

// expectRecord registers a one-shot expectation for an audit entry with the
// given action and resource type, returning a stored stub.
func (m *mockRecorder) expectRecord(action, resourceType string) *mock.Call {
	return m.On("Record", mock.Anything, mock.MatchedBy(func(rec AuditRecord) bool {
		return rec.Action == action && rec.ResourceType == resourceType
	})).Return(&model.AuditEntry{ID: "audit-id", Action: action, ResourceType: resourceType}, nil).Once()
}
