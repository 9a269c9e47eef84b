package cleanup

import (
	"code-drop/internal/core/port"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reapedFilesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codedrop_reaped_files_total",
		Help: "Files removed by expiry sweeps.",
	})
	reapFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codedrop_reap_failures_total",
		Help: "Expired files a sweep failed to remove.",
	})
)

type cleanupService struct {
	registry  port.FileRegistry
	blobStore port.BlobStore
	logger    *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(registry port.FileRegistry, blobStore port.BlobStore, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		registry:  registry,
		blobStore: blobStore,
		logger:    logger,
	}
}
