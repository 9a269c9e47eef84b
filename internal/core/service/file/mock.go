package file

import (
	"code-drop/internal/core/domain"
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockFileService is a mock implementation of FileService
type MockFileService struct {
	mock.Mock
}

// NewMockFileService creates a new MockFileService
func NewMockFileService() *MockFileService {
	return &MockFileService{}
}

func (m *MockFileService) CreateFile(ctx context.Context, r io.Reader, originalName, mimeType string, expiresMinutes, maxDownloads int) (*domain.FileRecord, error) {
	args := m.Called(ctx, r, originalName, mimeType, expiresMinutes, maxDownloads)
	record, _ := args.Get(0).(*domain.FileRecord)
	return record, args.Error(1)
}

func (m *MockFileService) GetMetadata(ctx context.Context, code string) (*domain.FileRecord, error) {
	args := m.Called(ctx, code)
	record, _ := args.Get(0).(*domain.FileRecord)
	return record, args.Error(1)
}

func (m *MockFileService) FetchForDownload(ctx context.Context, code string) (io.ReadCloser, *domain.FileRecord, error) {
	args := m.Called(ctx, code)
	reader, _ := args.Get(0).(io.ReadCloser)
	record, _ := args.Get(1).(*domain.FileRecord)
	return reader, record, args.Error(2)
}

func (m *MockFileService) DeleteByCode(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}
