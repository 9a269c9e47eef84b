package sqlite_test

import (
	"code-drop/internal/adapters/repository/sqlite"
	"code-drop/internal/core/domain"
	"code-drop/internal/core/port"
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRegistry opens a fresh database file in a temp dir
func setupRegistry(t *testing.T) port.FileRegistry {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "files.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return sqlite.NewGormFileRegistry(db)
}

func newRecord(code string, expiresMinutes, maxDownloads int, now time.Time) domain.FileRecord {
	return domain.NewFileRecord(code, "notes.txt", "text/plain", uuid.NewString()+".txt", 12, expiresMinutes, maxDownloads, now)
}

func TestGormFileRegistry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Insert - Success", func(t *testing.T) {
		// Arrange
		repo := setupRegistry(t)
		record := newRecord("123456", 30, 2, now)

		// Act
		id, err := repo.Insert(ctx, record)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, record.ID, id)
		file, err := repo.FindByCode(ctx, "123456")
		require.NoError(t, err)
		assert.Equal(t, record.ID, file.ID)
		assert.Equal(t, "notes.txt", file.OriginalName)
		assert.Equal(t, 2, file.MaxDownloads)
		require.NotNil(t, file.ExpiresAt)
		assert.WithinDuration(t, *record.ExpiresAt, *file.ExpiresAt, time.Millisecond)
	})

	t.Run("Insert - Duplicate Code", func(t *testing.T) {
		repo := setupRegistry(t)
		_, err := repo.Insert(ctx, newRecord("123456", 0, 0, now))
		require.NoError(t, err)

		_, err = repo.Insert(ctx, newRecord("123456", 0, 0, now))

		require.ErrorIs(t, err, domain.ErrDuplicateCode)
	})

	t.Run("FindByDiskName - Not Found", func(t *testing.T) {
		repo := setupRegistry(t)

		_, err := repo.FindByDiskName(ctx, "missing.bin")

		require.ErrorIs(t, err, domain.ErrFileNotFound)
	})

	t.Run("Delete - Success", func(t *testing.T) {
		// Arrange
		repo := setupRegistry(t)
		record := newRecord("123456", 0, 0, now)
		_, _ = repo.Insert(ctx, record)

		// Act
		err := repo.Delete(ctx, record.ID)

		// Assert
		require.NoError(t, err)
		_, err = repo.FindByID(ctx, record.ID)
		require.ErrorIs(t, err, domain.ErrFileNotFound)
		require.NoError(t, repo.Delete(ctx, record.ID))
	})

	t.Run("IncrementIfAllowed - Quota", func(t *testing.T) {
		// Arrange
		repo := setupRegistry(t)
		record := newRecord("123456", 0, 1, now)
		_, _ = repo.Insert(ctx, record)

		// Act
		first, granted1, err1 := repo.IncrementIfAllowed(ctx, record.ID, now)
		second, granted2, err2 := repo.IncrementIfAllowed(ctx, record.ID, now)

		// Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.True(t, granted1)
		assert.Equal(t, 1, first.Downloads)
		assert.False(t, granted2)
		assert.Equal(t, 1, second.Downloads)
	})

	t.Run("IncrementIfAllowed - Expired", func(t *testing.T) {
		repo := setupRegistry(t)
		record := newRecord("123456", 1, 0, now)
		_, _ = repo.Insert(ctx, record)

		_, granted, err := repo.IncrementIfAllowed(ctx, record.ID, now.Add(61*time.Second))

		require.NoError(t, err)
		assert.False(t, granted)
	})

	t.Run("IncrementIfAllowed - Not Found", func(t *testing.T) {
		repo := setupRegistry(t)

		_, granted, err := repo.IncrementIfAllowed(ctx, uuid.New(), now)

		assert.False(t, granted)
		require.ErrorIs(t, err, domain.ErrFileNotFound)
	})

	t.Run("IncrementIfAllowed - Concurrent", func(t *testing.T) {
		// Arrange
		repo := setupRegistry(t)
		const maxDownloads = 4
		record := newRecord("123456", 0, maxDownloads, now)
		_, _ = repo.Insert(ctx, record)

		var granted atomic.Int64
		var wg sync.WaitGroup

		// Act
		for i := 0; i < maxDownloads*3; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, ok, err := repo.IncrementIfAllowed(ctx, record.ID, now); err == nil && ok {
					granted.Add(1)
				}
			}()
		}
		wg.Wait()

		// Assert
		assert.Equal(t, int64(maxDownloads), granted.Load())
	})

	t.Run("FindExpired - Success", func(t *testing.T) {
		// Arrange
		repo := setupRegistry(t)
		expired := newRecord("111111", 1, 0, now.Add(-time.Hour))
		fresh := newRecord("222222", 60, 0, now)
		forever := newRecord("333333", 0, 0, now.Add(-time.Hour))
		for _, r := range []domain.FileRecord{expired, fresh, forever} {
			_, err := repo.Insert(ctx, r)
			require.NoError(t, err)
		}

		// Act
		files, err := repo.FindExpired(ctx, now)

		// Assert
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, expired.ID, files[0].ID)
	})
}
