package port

import (
	"code-drop/internal/core/domain"
	"context"
	"time"
)

// CleanupService is service that reclaims blobs and registry rows
type CleanupService interface {
	CleanupExpiredFiles(ctx context.Context, now time.Time) (int, error)
	RemoveFile(ctx context.Context, record domain.FileRecord) error
}
