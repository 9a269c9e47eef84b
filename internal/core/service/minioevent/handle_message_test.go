package minioevent_test

import (
	"code-drop/internal/adapters/repository"
	"code-drop/internal/core/domain"
	"code-drop/internal/core/service/minioevent"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notification(eventName, key string) []byte {
	return []byte(fmt.Sprintf(`{
		"EventName": %q,
		"Key": "code-drop/%s",
		"Records": [{
			"eventName": %q,
			"eventTime": "2026-03-01T12:00:00.000Z",
			"s3": {
				"bucket": {"name": "code-drop"},
				"object": {"key": %q, "size": 5}
			}
		}]
	}`, eventName, key, eventName, key))
}

func TestMinioEventService_HandleMessage(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Removed Blob Drops Record", func(t *testing.T) {
		// Arrange
		registry := repository.NewMockFileRegistry()
		service := minioevent.NewMinioEventService(registry, logger)
		record := &domain.FileRecord{ID: uuid.New(), Code: "123456", DiskName: "abc.pdf"}

		registry.On("FindByDiskName", ctx, "abc.pdf").Return(record, nil)
		registry.On("Delete", ctx, record.ID).Return(nil)

		// Act
		err := service.HandleMessage(ctx, notification("s3:ObjectRemoved:Delete", "blobs%2Fabc.pdf"))

		// Assert
		require.NoError(t, err)
		registry.AssertExpectations(t)
	})

	t.Run("Removed Blob Without Record", func(t *testing.T) {
		registry := repository.NewMockFileRegistry()
		service := minioevent.NewMinioEventService(registry, logger)

		registry.On("FindByDiskName", ctx, "abc.pdf").Return(nil, domain.ErrFileNotFound)

		err := service.HandleMessage(ctx, notification("s3:ObjectRemoved:Delete", "blobs/abc.pdf"))

		require.NoError(t, err)
		registry.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Created Blob Is Ignored", func(t *testing.T) {
		registry := repository.NewMockFileRegistry()
		service := minioevent.NewMinioEventService(registry, logger)

		err := service.HandleMessage(ctx, notification("s3:ObjectCreated:Put", "blobs/abc.pdf"))

		require.NoError(t, err)
		registry.AssertNotCalled(t, "FindByDiskName", mock.Anything, mock.Anything)
	})

	t.Run("Registry Failure Is Returned", func(t *testing.T) {
		registry := repository.NewMockFileRegistry()
		service := minioevent.NewMinioEventService(registry, logger)
		dbErr := errors.New("database error")

		registry.On("FindByDiskName", ctx, "abc.pdf").Return(nil, dbErr)

		err := service.HandleMessage(ctx, notification("s3:ObjectRemoved:Delete", "abc.pdf"))

		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("Invalid Payload", func(t *testing.T) {
		registry := repository.NewMockFileRegistry()
		service := minioevent.NewMinioEventService(registry, logger)

		assert.Error(t, service.HandleMessage(ctx, []byte("not json")))
		assert.Error(t, service.HandleMessage(ctx, []byte(`{"Records": []}`)))
	})
}
