package cleanup_test

import (
	"code-drop/internal/core/service/cleanup"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReaper_Run(t *testing.T) {
	t.Run("Sweeps At Start And On Tick", func(t *testing.T) {
		// Arrange
		ctx, cancel := context.WithCancel(context.Background())
		service := cleanup.NewMockCleanupService()
		sweeps := make(chan struct{}, 16)
		service.On("CleanupExpiredFiles", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { sweeps <- struct{}{} }).
			Return(0, nil)
		reaper := cleanup.NewReaper(service, 10*time.Millisecond, discardLogger())

		done := make(chan struct{})
		go func() {
			reaper.Run(ctx)
			close(done)
		}()

		// Act
		for i := 0; i < 3; i++ {
			select {
			case <-sweeps:
			case <-time.After(2 * time.Second):
				t.Fatalf("sweep %d did not happen", i+1)
			}
		}
		cancel()

		// Assert
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("reaper did not stop after cancel")
		}
	})

	t.Run("Keeps Running After Sweep Error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		service := cleanup.NewMockCleanupService()
		sweeps := make(chan struct{}, 16)
		service.On("CleanupExpiredFiles", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { sweeps <- struct{}{} }).
			Return(0, errors.New("database error"))
		reaper := cleanup.NewReaper(service, 10*time.Millisecond, discardLogger())

		go reaper.Run(ctx)

		received := 0
		timeout := time.After(2 * time.Second)
		for received < 2 {
			select {
			case <-sweeps:
				received++
			case <-timeout:
				t.Fatal("reaper stopped sweeping after an error")
			}
		}
		assert.Equal(t, 2, received)
	})
}
