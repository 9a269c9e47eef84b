package file

import (
	"code-drop/internal/config"
	"code-drop/internal/core/port"
	"context"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"
)

const defaultMimeType = "application/octet-stream"

var (
	uploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codedrop_uploads_total",
		Help: "Files registered under a new code.",
	})
	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codedrop_download_decisions_total",
		Help: "Download attempts by outcome.",
	}, []string{"decision"})
)

type fileService struct {
	registry    port.FileRegistry
	blobStore   port.BlobStore
	codes       port.CodeGenerator
	cleanup     port.CleanupService
	registryCfg config.RegistryConfig
	uploadCfg   config.FileUploadConfig
	uploads     *semaphore.Weighted
	now         func() time.Time
	logger      *slog.Logger
}

// Option customizes a file service
type Option func(*fileService)

// WithClock replaces time.Now as the source of the current instant
func WithClock(now func() time.Time) Option {
	return func(f *fileService) {
		f.now = now
	}
}

// NewFileService creates a new file service
func NewFileService(
	registry port.FileRegistry,
	blobStore port.BlobStore,
	codes port.CodeGenerator,
	cleanup port.CleanupService,
	registryCfg config.RegistryConfig,
	uploadCfg config.FileUploadConfig,
	logger *slog.Logger,
	opts ...Option,
) port.FileService {
	maxConcurrent := uploadCfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	f := &fileService{
		registry:    registry,
		blobStore:   blobStore,
		codes:       codes,
		cleanup:     cleanup,
		registryCfg: registryCfg,
		uploadCfg:   uploadCfg,
		uploads:     semaphore.NewWeighted(maxConcurrent),
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// opContext bounds a single registry call
func (f *fileService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.registryCfg.OpTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.registryCfg.OpTimeout)
}

func sanitizeOriginalName(name string) string {
	name = filepath.Base(filepath.ToSlash(strings.ReplaceAll(name, `\`, "/")))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}

func extractMimeType(contentType string) string {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mimeType == "" {
		return defaultMimeType
	}
	return mimeType
}
