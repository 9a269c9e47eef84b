package minioevent

import (
	"code-drop/internal/core/port"
	"log/slog"
)

type minioEventService struct {
	registry port.FileRegistry
	logger   *slog.Logger
}

// NewMinioEventService creates a new Minio event handler that keeps the registry in step with the bucket
func NewMinioEventService(registry port.FileRegistry, logger *slog.Logger) port.MessageService {
	return &minioEventService{
		registry: registry,
		logger:   logger,
	}
}
