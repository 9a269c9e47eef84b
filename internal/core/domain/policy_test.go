package domain_test

import (
	"code-drop/internal/core/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name   string
		record domain.FileRecord
		want   domain.AccessDecision
	}{
		{
			name:   "no expiry, unlimited",
			record: domain.FileRecord{},
			want:   domain.AccessAllowed,
		},
		{
			name:   "expires in the future",
			record: domain.FileRecord{ExpiresAt: &future},
			want:   domain.AccessAllowed,
		},
		{
			name:   "expires exactly now",
			record: domain.FileRecord{ExpiresAt: &now},
			want:   domain.AccessExpired,
		},
		{
			name:   "expired in the past",
			record: domain.FileRecord{ExpiresAt: &past},
			want:   domain.AccessExpired,
		},
		{
			name:   "under quota",
			record: domain.FileRecord{MaxDownloads: 2, Downloads: 1},
			want:   domain.AccessAllowed,
		},
		{
			name:   "quota exhausted",
			record: domain.FileRecord{MaxDownloads: 2, Downloads: 2},
			want:   domain.AccessLimitReached,
		},
		{
			name:   "expired and exhausted reports expired",
			record: domain.FileRecord{ExpiresAt: &past, MaxDownloads: 1, Downloads: 1},
			want:   domain.AccessExpired,
		},
		{
			name:   "unlimited ignores download count",
			record: domain.FileRecord{MaxDownloads: 0, Downloads: 1000},
			want:   domain.AccessAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Evaluate(tt.record, now))
		})
	}
}

func TestAccessDecision_Err(t *testing.T) {
	assert.NoError(t, domain.AccessAllowed.Err())
	assert.ErrorIs(t, domain.AccessExpired.Err(), domain.ErrFileExpired)
	assert.ErrorIs(t, domain.AccessLimitReached.Err(), domain.ErrDownloadLimitReached)
}

func TestNewFileRecord(t *testing.T) {
	now := time.Now()

	t.Run("expiry and quota set", func(t *testing.T) {
		record := domain.NewFileRecord("123456", "a.txt", "text/plain", "disk.txt", 3, 60, 2, now)

		assert.NotEqual(t, record.ID.String(), "00000000-0000-0000-0000-000000000000")
		assert.Equal(t, "123456", record.Code)
		assert.Equal(t, int64(3), record.SizeBytes)
		if assert.NotNil(t, record.ExpiresAt) {
			assert.Equal(t, now.Add(time.Hour), *record.ExpiresAt)
		}
		assert.Equal(t, 2, record.MaxDownloads)
		assert.Zero(t, record.Downloads)
	})

	t.Run("non positive values mean no expiry and unlimited", func(t *testing.T) {
		record := domain.NewFileRecord("123456", "a.txt", "text/plain", "disk.txt", 3, 0, -4, now)

		assert.Nil(t, record.ExpiresAt)
		assert.Zero(t, record.MaxDownloads)
	})
}

func TestBlobEventTypeFromName(t *testing.T) {
	assert.Equal(t, domain.BlobEventCreated, domain.BlobEventTypeFromName("s3:ObjectCreated:Put"))
	assert.Equal(t, domain.BlobEventRemoved, domain.BlobEventTypeFromName("s3:ObjectRemoved:Delete"))
	assert.Equal(t, domain.BlobEventRemoved, domain.BlobEventTypeFromName("s3:ObjectRemoved:DeleteMarkerCreated"))
	assert.Equal(t, domain.BlobEventUnknown, domain.BlobEventTypeFromName("s3:ObjectAccessed:Get"))
}

func TestSanitizeExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: ".PDF", want: ".pdf"},
		{in: "txt", want: ".txt"},
		{in: "", want: ""},
		{in: ".tar.gz", want: ""},
		{in: "../../etc", want: ""},
		{in: ".aVeryLongExtensionName", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.SanitizeExtension(tt.in))
		})
	}
}

func TestNewDiskName(t *testing.T) {
	first := domain.NewDiskName(domain.ExtensionOf("C:/Users/me/Report.PDF"))
	second := domain.NewDiskName(".pdf")

	assert.True(t, strings.HasSuffix(first, ".pdf"))
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "/")
}
