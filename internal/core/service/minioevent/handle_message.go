package minioevent

import (
	"code-drop/internal/core/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// HandleMessage drops registry rows whose blob was removed out of band.
// Other notifications are acknowledged without side effects.
func (m *minioEventService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.MinIOEvent

	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("could not unmarshal minioevent: %v", err)
	}
	if len(event.Records) == 0 {
		return fmt.Errorf("no records in minioevent")
	}

	for _, bucketNotif := range event.Records {
		decodedKey, err := url.QueryUnescape(bucketNotif.S3.Object.Key)
		if err != nil {
			return err
		}

		diskName := decodedKey
		if index := strings.LastIndex(decodedKey, "/"); index != -1 {
			diskName = decodedKey[index+1:]
		}
		if diskName == "" {
			return fmt.Errorf("empty object key in minioevent")
		}

		eventType := domain.BlobEventTypeFromName(bucketNotif.EventName)
		m.logger.Info("handling event", "eventtype", bucketNotif.EventName, "key", decodedKey, "diskName", diskName)

		if eventType != domain.BlobEventRemoved {
			continue
		}

		if err := m.dropRecord(ctx, diskName); err != nil {
			return err
		}
	}

	return nil
}

func (m *minioEventService) dropRecord(ctx context.Context, diskName string) error {
	record, err := m.registry.FindByDiskName(ctx, diskName)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return nil
		}
		return err
	}

	if err := m.registry.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("could not drop record for removed blob %s: %w", diskName, err)
	}

	m.logger.Info("record dropped after blob removal", "code", record.Code, "diskName", diskName)
	return nil
}
