package port

import (
	"code-drop/internal/core/domain"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileRegistry is an interface to define file registry interactions
type FileRegistry interface {
	Insert(ctx context.Context, record domain.FileRecord) (uuid.UUID, error)
	FindByCode(ctx context.Context, code string) (*domain.FileRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error)
	FindByDiskName(ctx context.Context, diskName string) (*domain.FileRecord, error)
	// IncrementIfAllowed re-checks the policy at now and counts one download when still allowed.
	// It returns the updated record on grant and the current record on denial.
	IncrementIfAllowed(ctx context.Context, id uuid.UUID, now time.Time) (*domain.FileRecord, bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindExpired(ctx context.Context, before time.Time) ([]domain.FileRecord, error)
}

// BlobStore is an interface to define file bytes storage interactions
type BlobStore interface {
	Put(ctx context.Context, r io.Reader, extension string) (diskName string, size int64, err error)
	Open(ctx context.Context, diskName string) (io.ReadCloser, error)
	Delete(ctx context.Context, diskName string) error
}

// CodeGenerator produces candidate retrieval codes
type CodeGenerator interface {
	Generate() (string, error)
}

// FileService is an interface to define file service
type FileService interface {
	CreateFile(ctx context.Context, r io.Reader, originalName, mimeType string, expiresMinutes, maxDownloads int) (*domain.FileRecord, error)
	GetMetadata(ctx context.Context, code string) (*domain.FileRecord, error)
	FetchForDownload(ctx context.Context, code string) (io.ReadCloser, *domain.FileRecord, error)
	DeleteByCode(ctx context.Context, code string) error
}
