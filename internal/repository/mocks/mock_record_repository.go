package mocks

import (
	"context"

	"submithub/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) ReadAll(ctx context.Context) ([]model.RecordRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecordRow), args.Error(1)
}

func (m *MockRecordRepository) Append(ctx context.Context, row model.RecordRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}
