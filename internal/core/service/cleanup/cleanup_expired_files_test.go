package cleanup_test

import (
	"code-drop/internal/adapters/repository"
	"code-drop/internal/adapters/storage"
	"code-drop/internal/core/domain"
	"code-drop/internal/core/service/cleanup"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func expiredRecord(code string, now time.Time) domain.FileRecord {
	expiresAt := now.Add(-time.Minute)
	return domain.FileRecord{
		ID:        uuid.New(),
		Code:      code,
		DiskName:  code + ".bin",
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: &expiresAt,
	}
}

func TestCleanupService_CleanupExpiredFiles_NoExpiredFiles(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := repository.NewMockFileRegistry()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockRegistry, mockStorage, discardLogger())

	now := time.Now()
	mockRegistry.On("FindExpired", ctx, now).Return([]domain.FileRecord{}, nil)

	// Act
	removed, err := service.CleanupExpiredFiles(ctx, now)

	// Assert
	assert.NoError(t, err)
	assert.Zero(t, removed)
	mockRegistry.AssertExpectations(t)
	mockStorage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCleanupService_CleanupExpiredFiles_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := repository.NewMockFileRegistry()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockRegistry, mockStorage, discardLogger())

	now := time.Now()
	first := expiredRecord("111111", now)
	second := expiredRecord("222222", now)

	mockRegistry.On("FindExpired", ctx, now).Return([]domain.FileRecord{first, second}, nil)
	mockStorage.On("Delete", ctx, first.DiskName).Return(nil)
	mockStorage.On("Delete", ctx, second.DiskName).Return(nil)
	mockRegistry.On("Delete", ctx, first.ID).Return(nil)
	mockRegistry.On("Delete", ctx, second.ID).Return(nil)

	// Act
	removed, err := service.CleanupExpiredFiles(ctx, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	mockRegistry.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestCleanupService_CleanupExpiredFiles_ContinuesAfterFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := repository.NewMockFileRegistry()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockRegistry, mockStorage, discardLogger())

	now := time.Now()
	broken := expiredRecord("111111", now)
	healthy := expiredRecord("222222", now)

	mockRegistry.On("FindExpired", ctx, now).Return([]domain.FileRecord{broken, healthy}, nil)
	mockStorage.On("Delete", ctx, broken.DiskName).Return(domain.ErrStorageIO)
	mockStorage.On("Delete", ctx, healthy.DiskName).Return(nil)
	mockRegistry.On("Delete", ctx, healthy.ID).Return(nil)

	// Act
	removed, err := service.CleanupExpiredFiles(ctx, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	mockRegistry.AssertNotCalled(t, "Delete", ctx, broken.ID)
	mockRegistry.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestCleanupService_CleanupExpiredFiles_FindError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRegistry := repository.NewMockFileRegistry()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockRegistry, mockStorage, discardLogger())

	now := time.Now()
	expectedErr := errors.New("database error")
	mockRegistry.On("FindExpired", ctx, now).Return(nil, expectedErr)

	// Act
	removed, err := service.CleanupExpiredFiles(ctx, now)

	// Assert
	assert.ErrorIs(t, err, expectedErr)
	assert.Zero(t, removed)
}

func TestCleanupService_CleanupExpiredFiles_StopsOnCancel(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	mockRegistry := repository.NewMockFileRegistry()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockRegistry, mockStorage, discardLogger())

	now := time.Now()
	first := expiredRecord("111111", now)
	second := expiredRecord("222222", now)

	mockRegistry.On("FindExpired", ctx, now).Return([]domain.FileRecord{first, second}, nil)
	mockStorage.On("Delete", ctx, first.DiskName).Return(nil)
	mockRegistry.On("Delete", ctx, first.ID).Run(func(mock.Arguments) { cancel() }).Return(nil)

	// Act
	removed, err := service.CleanupExpiredFiles(ctx, now)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, removed)
	mockStorage.AssertNotCalled(t, "Delete", ctx, second.DiskName)
}

func TestCleanupService_RemoveFile(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Blob First", func(t *testing.T) {
		// Arrange
		mockRegistry := repository.NewMockFileRegistry()
		mockStorage := storage.NewMockStorage()
		service := cleanup.NewCleanupService(mockRegistry, mockStorage, discardLogger())
		record := expiredRecord("123456", now)

		var order []string
		mockStorage.On("Delete", ctx, record.DiskName).Run(func(mock.Arguments) { order = append(order, "blob") }).Return(nil)
		mockRegistry.On("Delete", ctx, record.ID).Run(func(mock.Arguments) { order = append(order, "row") }).Return(nil)

		// Act
		err := service.RemoveFile(ctx, record)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"blob", "row"}, order)
	})

	t.Run("Blob Failure Keeps Row", func(t *testing.T) {
		mockRegistry := repository.NewMockFileRegistry()
		mockStorage := storage.NewMockStorage()
		service := cleanup.NewCleanupService(mockRegistry, mockStorage, discardLogger())
		record := expiredRecord("123456", now)

		mockStorage.On("Delete", ctx, record.DiskName).Return(domain.ErrStorageIO)

		err := service.RemoveFile(ctx, record)

		require.ErrorIs(t, err, domain.ErrStorageIO)
		mockRegistry.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
