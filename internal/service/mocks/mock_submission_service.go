package mocks

import (
	"context"
	"io"

	"submithub/internal/model"
	"submithub/internal/service"
	"submithub/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, r io.Reader, fileName, submitterID, submitterName, contentType string) ([]model.RoutingTarget, error) {
	args := m.Called(ctx, r, fileName, submitterID, submitterName, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RoutingTarget), args.Error(1)
}

func (m *MockSubmissionService) SelectTarget(ctx context.Context, submitterID, targetID string) (*model.Submission, error) {
	args := m.Called(ctx, submitterID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionService) CancelSelection(submitterID string) bool {
	args := m.Called(submitterID)
	return args.Bool(0)
}

func (m *MockSubmissionService) RegisterTarget(ctx context.Context, requestedBy, targetID, displayName string) (*model.RoutingTarget, error) {
	args := m.Called(ctx, requestedBy, targetID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoutingTarget), args.Error(1)
}

func (m *MockSubmissionService) Targets() []model.RoutingTarget {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.RoutingTarget)
}

func (m *MockSubmissionService) List(ctx context.Context, requesterID, requesterRole string) (*service.ListResult, error) {
	args := m.Called(ctx, requesterID, requesterRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult), args.Error(1)
}

func (m *MockSubmissionService) Content(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, fileName)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockSubmissionService) Rebuild(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

func (m *MockSubmissionService) Role(id string) string {
	args := m.Called(id)
	return args.String(0)
}

func (m *MockSubmissionService) Close() {
	m.Called()
}
