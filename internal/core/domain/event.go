package domain

import "strings"

// MinIOEvent is a bucket notification published by MinIO
type MinIOEvent struct {
	EventName string `json:"EventName"`
	Key       string `json:"Key"`
	Records   []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key  string `json:"key"`
				Size int64  `json:"size"`
			} `json:"object"`
		} `json:"s3"`
		EventTime string `json:"eventTime"`
	} `json:"Records"`
}

// BlobEventType is the kind of change a blob notification reports
type BlobEventType string

const (
	BlobEventCreated BlobEventType = "created"
	BlobEventRemoved BlobEventType = "removed"
	BlobEventUnknown BlobEventType = "unknown"
)

// BlobEventTypeFromName maps an s3 event name (s3:ObjectRemoved:Delete, ...) to a BlobEventType
func BlobEventTypeFromName(name string) BlobEventType {
	switch {
	case strings.HasPrefix(name, "s3:ObjectCreated:"):
		return BlobEventCreated
	case strings.HasPrefix(name, "s3:ObjectRemoved:"):
		return BlobEventRemoved
	default:
		return BlobEventUnknown
	}
}
