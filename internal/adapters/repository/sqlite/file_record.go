package sqlite

import (
	"code-drop/internal/core/domain"
	"code-drop/internal/core/port"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the sqlite database at path and migrates the registry schema.
// The pool holds a single connection so writers never contend for the file lock.
func Open(path string) (*gorm.DB, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&sharedFile{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	return db, nil
}

type gormFileRegistry struct {
	db *gorm.DB
}

// NewGormFileRegistry creates gormFileRegistry that implements port.FileRegistry
func NewGormFileRegistry(db *gorm.DB) port.FileRegistry {
	return &gormFileRegistry{db: db}
}

// Insert saves a new shared file
func (r *gormFileRegistry) Insert(ctx context.Context, record domain.FileRecord) (uuid.UUID, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	row := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return uuid.Nil, fmt.Errorf("code %s : %w", record.Code, domain.ErrDuplicateCode)
		}
		return uuid.Nil, fmt.Errorf("failed to create shared file: %w", err)
	}
	return record.ID, nil
}

func (r *gormFileRegistry) findOne(db *gorm.DB, query string, arg any) (*domain.FileRecord, error) {
	var row sharedFile
	if err := db.First(&row, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find shared file: %w", err)
	}
	return row.toDomain()
}

func (r *gormFileRegistry) FindByCode(ctx context.Context, code string) (*domain.FileRecord, error) {
	return r.findOne(r.db.WithContext(ctx), "code = ?", code)
}

func (r *gormFileRegistry) FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	return r.findOne(r.db.WithContext(ctx), "id = ?", id.String())
}

func (r *gormFileRegistry) FindByDiskName(ctx context.Context, diskName string) (*domain.FileRecord, error) {
	return r.findOne(r.db.WithContext(ctx), "disk_name = ?", diskName)
}

// IncrementIfAllowed applies a conditional update and reads the row back in the same transaction
func (r *gormFileRegistry) IncrementIfAllowed(ctx context.Context, id uuid.UUID, now time.Time) (*domain.FileRecord, bool, error) {
	var (
		current *domain.FileRecord
		granted bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&sharedFile{}).
			Where("id = ?", id.String()).
			Where("(max_downloads = 0 OR downloads < max_downloads)").
			Where("(expires_at IS NULL OR expires_at > ?)", now.UTC()).
			UpdateColumn("downloads", gorm.Expr("downloads + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to increment downloads: %w", result.Error)
		}
		granted = result.RowsAffected == 1

		record, err := r.findOne(tx, "id = ?", id.String())
		if err != nil {
			return err
		}
		current = record
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return current, granted, nil
}

// Delete removes the row; a missing row is not an error
func (r *gormFileRegistry) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&sharedFile{}, "id = ?", id.String()).Error; err != nil {
		return fmt.Errorf("failed to delete shared file: %w", err)
	}
	return nil
}

func (r *gormFileRegistry) FindExpired(ctx context.Context, before time.Time) ([]domain.FileRecord, error) {
	var rows []sharedFile
	err := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", before.UTC()).
		Order("expires_at").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expired files: %w", err)
	}

	files := make([]domain.FileRecord, 0, len(rows))
	for i := range rows {
		record, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		files = append(files, *record)
	}
	return files, nil
}
