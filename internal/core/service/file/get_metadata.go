package file

import (
	"code-drop/internal/core/domain"
	"code-drop/internal/core/service/code"
	"context"
)

// GetMetadata returns the record behind a code when it may still be downloaded.
// It never counts a download and never removes anything.
func (f *fileService) GetMetadata(ctx context.Context, fileCode string) (*domain.FileRecord, error) {
	record, err := f.lookup(ctx, fileCode)
	if err != nil {
		return nil, err
	}

	if err := domain.Evaluate(*record, f.now()).Err(); err != nil {
		return nil, err
	}
	return record, nil
}

func (f *fileService) lookup(ctx context.Context, fileCode string) (*domain.FileRecord, error) {
	if !code.IsValidCode(fileCode) {
		return nil, domain.ErrInvalidCode
	}

	opCtx, cancel := f.opContext(ctx)
	defer cancel()
	return f.registry.FindByCode(opCtx, fileCode)
}
