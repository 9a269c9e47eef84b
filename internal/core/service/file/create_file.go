package file

import (
	"code-drop/internal/core/domain"
	"context"
	"errors"
	"fmt"
	"io"
)

// CreateFile stores the bytes first and then registers them under a fresh code.
// The blob is removed whenever no row ends up referencing it.
func (f *fileService) CreateFile(ctx context.Context, r io.Reader, originalName, mimeType string, expiresMinutes, maxDownloads int) (*domain.FileRecord, error) {
	if err := f.uploads.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.uploads.Release(1)

	originalName = sanitizeOriginalName(originalName)
	mimeType = extractMimeType(mimeType)

	diskName, size, err := f.blobStore.Put(ctx, r, domain.ExtensionOf(originalName))
	if err != nil {
		return nil, err
	}

	record, err := f.register(ctx, originalName, mimeType, diskName, size, expiresMinutes, maxDownloads)
	if err != nil {
		if delErr := f.blobStore.Delete(context.WithoutCancel(ctx), diskName); delErr != nil {
			f.logger.Error("failed to remove unregistered blob", "disk_name", diskName, "error", delErr)
		}
		return nil, err
	}

	uploadsTotal.Inc()
	f.logger.Info("file registered",
		"code", record.Code,
		"size", record.SizeBytes,
		"expires_at", record.ExpiresAt,
		"max_downloads", record.MaxDownloads)

	return record, nil
}

func (f *fileService) register(ctx context.Context, originalName, mimeType, diskName string, size int64, expiresMinutes, maxDownloads int) (*domain.FileRecord, error) {
	attempts := f.registryCfg.CodeMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		code, err := f.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("could not generate code: %w", err)
		}

		record := domain.NewFileRecord(code, originalName, mimeType, diskName, size, expiresMinutes, maxDownloads, f.now())

		opCtx, cancel := f.opContext(ctx)
		_, err = f.registry.Insert(opCtx, record)
		cancel()

		if errors.Is(err, domain.ErrDuplicateCode) {
			f.logger.Debug("code collision, retrying", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}
		return &record, nil
	}

	return nil, fmt.Errorf("no free code after %d attempts: %w", attempts, domain.ErrCodeSpaceExhausted)
}
