package cleanup

import (
	"context"
	"time"
)

func (c *cleanupService) CleanupExpiredFiles(ctx context.Context, now time.Time) (int, error) {

	files, err := c.registry.FindExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}

		if removeErr := c.RemoveFile(ctx, file); removeErr != nil {
			reapFailuresTotal.Inc()
			c.logger.Error("failed to remove expired file", "id", file.ID, "code", file.Code, "error", removeErr)
			continue
		}
		removed++
	}
	reapedFilesTotal.Add(float64(removed))

	if len(files) > 0 {
		c.logger.Info("cleanup: removed expired files", "removed", removed, "expired", len(files))
	}
	return removed, ctx.Err()
}
