package file

import (
	"code-drop/internal/core/domain"
	"context"
	"errors"
	"io"
)

// FetchForDownload opens the blob behind a code and counts exactly one download.
// The blob is opened before the counter moves, so a missing blob never consumes quota.
func (f *fileService) FetchForDownload(ctx context.Context, fileCode string) (io.ReadCloser, *domain.FileRecord, error) {
	record, err := f.lookup(ctx, fileCode)
	if err != nil {
		return nil, nil, err
	}

	now := f.now()
	if decision := domain.Evaluate(*record, now); decision != domain.AccessAllowed {
		return nil, nil, f.deny(ctx, *record, decision)
	}

	reader, err := f.blobStore.Open(ctx, record.DiskName)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			f.dropOrphan(ctx, *record)
			return nil, nil, domain.ErrFileNotFound
		}
		return nil, nil, err
	}

	opCtx, cancel := f.opContext(ctx)
	updated, granted, err := f.registry.IncrementIfAllowed(opCtx, record.ID, now)
	cancel()
	if err != nil {
		reader.Close()
		return nil, nil, err
	}

	if !granted {
		reader.Close()
		decision := domain.Evaluate(*updated, now)
		if decision == domain.AccessAllowed {
			decision = domain.AccessLimitReached
		}
		return nil, nil, f.deny(ctx, *updated, decision)
	}

	downloadsTotal.WithLabelValues(string(domain.AccessAllowed)).Inc()
	return reader, updated, nil
}

// deny records the refusal and lazily removes expired files
func (f *fileService) deny(ctx context.Context, record domain.FileRecord, decision domain.AccessDecision) error {
	downloadsTotal.WithLabelValues(string(decision)).Inc()

	if decision == domain.AccessExpired {
		if err := f.cleanup.RemoveFile(context.WithoutCancel(ctx), record); err != nil {
			f.logger.Error("failed to remove expired file", "code", record.Code, "error", err)
		}
	}
	return decision.Err()
}

func (f *fileService) dropOrphan(ctx context.Context, record domain.FileRecord) {
	f.logger.Warn("blob missing, dropping record", "code", record.Code, "disk_name", record.DiskName)

	opCtx, cancel := f.opContext(context.WithoutCancel(ctx))
	defer cancel()
	if err := f.registry.Delete(opCtx, record.ID); err != nil {
		f.logger.Error("failed to drop orphaned record", "code", record.Code, "error", err)
	}
}
