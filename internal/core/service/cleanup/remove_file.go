package cleanup

import (
	"code-drop/internal/core/domain"
	"context"
	"fmt"
)

// RemoveFile deletes the blob, then the registry row.
// A failed blob delete keeps the row so the record stays authoritative for existence.
func (c *cleanupService) RemoveFile(ctx context.Context, record domain.FileRecord) error {
	if err := c.blobStore.Delete(ctx, record.DiskName); err != nil {
		return fmt.Errorf("could not delete blob %s: %w", record.DiskName, err)
	}

	if err := c.registry.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("could not delete record %s: %w", record.ID, err)
	}

	return nil
}
