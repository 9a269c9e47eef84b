package config_test

import (
	"code-drop/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Act
	cfg, err := config.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, config.RegistryBackendSQLite, cfg.Registry.Backend)
	assert.Equal(t, config.BlobBackendFilesystem, cfg.Blob.Backend)
	assert.Equal(t, 10, cfg.Registry.CodeMaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Registry.ReapEvery)
	assert.Equal(t, int64(1<<30), cfg.Upload.MaxFileSize)
	assert.Equal(t, 1440, cfg.Upload.DefaultExpiresMinutes)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Registry: config.RegistryConfig{Backend: config.RegistryBackendMemory, CodeMaxAttempts: 10, ReapEvery: time.Minute},
			Upload:   config.FileUploadConfig{MaxConcurrent: 1},
			Blob:     config.BlobConfig{Backend: config.BlobBackendFilesystem, Dir: "/tmp/blobs"},
		}
	}

	t.Run("valid memory + filesystem", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("postgres without host", func(t *testing.T) {
		cfg := valid()
		cfg.Registry.Backend = config.RegistryBackendPostgres
		assert.ErrorContains(t, cfg.Validate(), "DB_HOST")
	})

	t.Run("minio without credentials", func(t *testing.T) {
		cfg := valid()
		cfg.Blob.Backend = config.BlobBackendMinio
		assert.ErrorContains(t, cfg.Validate(), "MINIO_ENDPOINT")
	})

	t.Run("unknown backends", func(t *testing.T) {
		cfg := valid()
		cfg.Registry.Backend = "redis"
		cfg.Blob.Backend = "tape"
		err := cfg.Validate()
		assert.ErrorContains(t, err, "REGISTRY_BACKEND")
		assert.ErrorContains(t, err, "BLOB_BACKEND")
	})

	t.Run("non positive attempts", func(t *testing.T) {
		cfg := valid()
		cfg.Registry.CodeMaxAttempts = 0
		assert.ErrorContains(t, cfg.Validate(), "REGISTRY_CODE_MAX_ATTEMPTS")
	})
}
