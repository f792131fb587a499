package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRecordRepository is a mock implementation of repository.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Get(ctx context.Context, kind string) ([]byte, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRecordRepository) UpdateMany(ctx context.Context, kinds []string, fn func(current map[string][]byte) (map[string][]byte, error)) error {
	args := m.Called(ctx, kinds, fn)
	return args.Error(0)
}

func (m *MockRecordRepository) Delete(ctx context.Context, kinds ...string) error {
	args := m.Called(ctx, kinds)
	return args.Error(0)
}

func (m *MockRecordRepository) Kinds(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
