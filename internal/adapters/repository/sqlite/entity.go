package sqlite

import (
	"code-drop/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// sharedFile is the gorm model for one registry row
type sharedFile struct {
	ID           string     `gorm:"primarykey;size:36"`
	Code         string     `gorm:"size:6;not null;uniqueIndex"`
	OriginalName string     `gorm:"not null"`
	DiskName     string     `gorm:"not null;uniqueIndex"`
	MimeType     string     `gorm:"not null;default:application/octet-stream"`
	SizeBytes    int64      `gorm:"not null"`
	CreatedAt    time.Time  `gorm:"not null"`
	ExpiresAt    *time.Time `gorm:"index"`
	MaxDownloads int        `gorm:"not null;default:0"`
	Downloads    int        `gorm:"not null;default:0"`
}

// TableName returns the table name for sharedFile model.
func (sharedFile) TableName() string {
	return "shared_files"
}

// fromDomain stores times in UTC; sqlite compares them as text
func fromDomain(record domain.FileRecord) sharedFile {
	var expiresAt *time.Time
	if record.ExpiresAt != nil {
		utc := record.ExpiresAt.UTC()
		expiresAt = &utc
	}
	return sharedFile{
		ID:           record.ID.String(),
		Code:         record.Code,
		OriginalName: record.OriginalName,
		DiskName:     record.DiskName,
		MimeType:     record.MimeType,
		SizeBytes:    record.SizeBytes,
		CreatedAt:    record.CreatedAt.UTC(),
		ExpiresAt:    expiresAt,
		MaxDownloads: record.MaxDownloads,
		Downloads:    record.Downloads,
	}
}

func (f *sharedFile) toDomain() (*domain.FileRecord, error) {
	id, err := uuid.Parse(f.ID)
	if err != nil {
		return nil, err
	}
	return &domain.FileRecord{
		ID:           id,
		Code:         f.Code,
		OriginalName: f.OriginalName,
		DiskName:     f.DiskName,
		MimeType:     f.MimeType,
		SizeBytes:    f.SizeBytes,
		CreatedAt:    f.CreatedAt,
		ExpiresAt:    f.ExpiresAt,
		MaxDownloads: f.MaxDownloads,
		Downloads:    f.Downloads,
	}, nil
}
