package cleanup

import (
	"code-drop/internal/core/port"
	"context"
	"log/slog"
	"time"
)

// Reaper runs expiry sweeps on a fixed interval
type Reaper struct {
	service port.CleanupService
	every   time.Duration
	logger  *slog.Logger
}

// NewReaper creates a Reaper sweeping every interval
func NewReaper(service port.CleanupService, every time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{
		service: service,
		every:   every,
		logger:  logger,
	}
}

// Run sweeps once, then on every tick until ctx is done
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.every)
	defer ticker.Stop()

	r.logger.Info("cleanup task initialized", "interval", r.every)
	r.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			r.sweep(ctx)
		case <-ctx.Done():
			r.logger.Info("cleanup task stopped")
			return
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	removed, err := r.service.CleanupExpiredFiles(ctx, time.Now())
	if err != nil && ctx.Err() == nil {
		r.logger.Error("failed to cleanup expired files", "error", err)
		return
	}
	r.logger.Debug("cleanup task completed", "removed", removed)
}
