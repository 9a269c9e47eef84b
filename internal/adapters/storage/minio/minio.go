package minio

import (
	"code-drop/internal/config"
	"code-drop/internal/core/domain"
	"code-drop/internal/core/port"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

var _ port.BlobStore = (*Adapter)(nil)

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// ObjectKey maps a disk name to its object key in the bucket
func (a *Adapter) ObjectKey(diskName string) string {
	if a.config.KeyPrefix == "" {
		return diskName
	}
	return path.Join(a.config.KeyPrefix, diskName)
}

// Put streams r into a new object of unknown size
func (a *Adapter) Put(ctx context.Context, r io.Reader, extension string) (string, int64, error) {
	diskName := domain.NewDiskName(extension)

	info, err := a.client.PutObject(ctx, a.config.BucketName, a.ObjectKey(diskName), r, -1, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", 0, ctxErr
		}
		return "", 0, fmt.Errorf("failed to put object: %w: %w", domain.ErrStorageIO, err)
	}

	return diskName, info.Size, nil
}

// Open retrieves an object. The object is stat'ed first so a missing key surfaces here rather than on first read.
func (a *Adapter) Open(ctx context.Context, diskName string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, a.config.BucketName, a.ObjectKey(diskName), minio.GetObjectOptions{})
	if err != nil {
		return nil, a.mapError("failed to get object", err)
	}

	if _, err := object.Stat(); err != nil {
		object.Close()
		return nil, a.mapError("failed to stat object", err)
	}
	return object, nil
}

// Delete deletes an object from storage. Removing a missing key succeeds.
func (a *Adapter) Delete(ctx context.Context, diskName string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, a.ObjectKey(diskName), minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete object: %w: %w", domain.ErrStorageIO, err)
	}

	a.logger.Info("object deleted",
		slog.String("fileKey", a.ObjectKey(diskName)),
		slog.String("bucket", a.config.BucketName))

	return nil
}

func (a *Adapter) mapError(msg string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return domain.ErrBlobNotFound
	}
	return fmt.Errorf("%s: %w: %w", msg, domain.ErrStorageIO, err)
}
