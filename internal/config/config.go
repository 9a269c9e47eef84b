package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Registry backends
const (
	RegistryBackendMemory   = "memory"
	RegistryBackendPostgres = "postgres"
	RegistryBackendSQLite   = "sqlite"
)

// Blob backends
const (
	BlobBackendFilesystem = "filesystem"
	BlobBackendMinio      = "minio"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Registry RegistryConfig
	Upload   FileUploadConfig
	Blob     BlobConfig
	Minio    MinioConfig
	NATS     NATSConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host           string        `envconfig:"SERVER_HOST" default:"localhost"`
	Port           string        `envconfig:"SERVER_PORT" default:"5000"`
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"10m"`
}

type RegistryConfig struct {
	Backend         string        `envconfig:"REGISTRY_BACKEND" default:"sqlite"`
	CodeMaxAttempts int           `envconfig:"REGISTRY_CODE_MAX_ATTEMPTS" default:"10"`
	ReapEvery       time.Duration `envconfig:"REGISTRY_REAP_EVERY" default:"10m"`
	OpTimeout       time.Duration `envconfig:"REGISTRY_OP_TIMEOUT" default:"5s"`
}

type FileUploadConfig struct {
	MaxFileSize           int64 `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"1073741824"` // 1GB
	MaxMemory             int64 `envconfig:"UPLOAD_MAX_MEMORY" default:"33554432"`      // 32MB, rest spills to temp files
	MaxConcurrent         int64 `envconfig:"UPLOAD_MAX_CONCURRENT" default:"16"`
	DefaultExpiresMinutes int   `envconfig:"UPLOAD_DEFAULT_EXPIRES_MINUTES" default:"1440"`
}

type BlobConfig struct {
	Backend string `envconfig:"BLOB_BACKEND" default:"filesystem"`
	Dir     string `envconfig:"BLOB_DIR" default:"./uploads"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" default:"code-drop"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	KeyPrefix  string `envconfig:"MINIO_KEY_PREFIX" default:"blobs"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type NATSConfig struct {
	URL          string `envconfig:"NATS_URL"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" default:"MINIO_EVENTS"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" default:"code-drop-blobevents"`
	Subject      string `envconfig:"NATS_SUBJECT" default:"minio.events"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER"`
	Password       string        `envconfig:"DB_PASSWORD"`
	Name           string        `envconfig:"DB_NAME"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

type SQLiteConfig struct {
	Path string `envconfig:"SQLITE_PATH" default:"files.db"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings required by the selected backends
func (c *Config) Validate() error {
	var errs []error

	switch c.Registry.Backend {
	case RegistryBackendMemory:
	case RegistryBackendSQLite:
		if c.SQLite.Path == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite registry"))
		}
	case RegistryBackendPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			errs = append(errs, errors.New("DB_HOST, DB_USER and DB_NAME are required for the postgres registry"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown REGISTRY_BACKEND %q", c.Registry.Backend))
	}

	switch c.Blob.Backend {
	case BlobBackendFilesystem:
		if c.Blob.Dir == "" {
			errs = append(errs, errors.New("BLOB_DIR is required for the filesystem blob store"))
		}
	case BlobBackendMinio:
		if c.Minio.Endpoint == "" || c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio blob store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown BLOB_BACKEND %q", c.Blob.Backend))
	}

	if c.Registry.CodeMaxAttempts <= 0 {
		errs = append(errs, errors.New("REGISTRY_CODE_MAX_ATTEMPTS must be positive"))
	}
	if c.Registry.ReapEvery <= 0 {
		errs = append(errs, errors.New("REGISTRY_REAP_EVERY must be positive"))
	}
	if c.Upload.MaxConcurrent <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_CONCURRENT must be positive"))
	}

	return errors.Join(errs...)
}
