package storage

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) Put(ctx context.Context, r io.Reader, extension string) (string, int64, error) {
	args := m.Called(ctx, r, extension)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) Open(ctx context.Context, diskName string) (io.ReadCloser, error) {
	args := m.Called(ctx, diskName)
	reader, _ := args.Get(0).(io.ReadCloser)
	return reader, args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, diskName string) error {
	args := m.Called(ctx, diskName)
	return args.Error(0)
}
