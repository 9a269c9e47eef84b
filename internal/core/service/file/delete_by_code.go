package file

import (
	"context"
)

// DeleteByCode revokes a file regardless of its policy state
func (f *fileService) DeleteByCode(ctx context.Context, fileCode string) error {
	record, err := f.lookup(ctx, fileCode)
	if err != nil {
		return err
	}

	if err := f.cleanup.RemoveFile(ctx, *record); err != nil {
		return err
	}

	f.logger.Info("file revoked", "code", record.Code)
	return nil
}
