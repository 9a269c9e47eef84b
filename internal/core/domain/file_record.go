package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileRecord represents one uploaded file and its retrieval policy
type FileRecord struct {
	ID           uuid.UUID
	Code         string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	DiskName     string
	CreatedAt    time.Time
	ExpiresAt    *time.Time
	MaxDownloads int
	Downloads    int
}

// NewFileRecord builds a record from upload parameters.
// expiresMinutes <= 0 means no expiry, maxDownloads <= 0 means unlimited.
func NewFileRecord(code, originalName, mimeType, diskName string, size int64, expiresMinutes, maxDownloads int, now time.Time) FileRecord {
	record := FileRecord{
		ID:           uuid.New(),
		Code:         code,
		OriginalName: originalName,
		MimeType:     mimeType,
		SizeBytes:    size,
		DiskName:     diskName,
		CreatedAt:    now,
	}
	if expiresMinutes > 0 {
		expiresAt := now.Add(time.Duration(expiresMinutes) * time.Minute)
		record.ExpiresAt = &expiresAt
	}
	if maxDownloads > 0 {
		record.MaxDownloads = maxDownloads
	}
	return record
}
