package converter

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rotehq/notebridge/internal/model"
)

// An attachment is "local" when it has no independently fetchable
// remote URL. Local attachments are dropped and counted: the target
// platform only supports remote storage references.

func isLocalJSONAttachment(att model.MemoAttachment) bool {
	url := att.RemoteURL()
	if url == "" {
		return true
	}
	return !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://")
}

func isLocalDBAttachment(att model.AttachmentRow) bool {
	return att.StorageType == "LOCAL" || att.Reference == ""
}

// normalizeJSONAttachments maps the remote attachments of one JSON
// export record, returning the converted list and the number of local
// ones dropped. The JSON export carries no attachment timestamps, so
// mtime and the record timestamps are the moment of conversion.
func normalizeJSONAttachments(atts []model.MemoAttachment) ([]model.RoteAttachment, int) {
	converted := make([]model.RoteAttachment, 0, len(atts))
	skipped := 0
	now := time.Now().UTC().Format(time.RFC3339)
	for _, att := range atts {
		if isLocalJSONAttachment(att) {
			skipped++
			continue
		}
		url := att.RemoteURL()
		key := att.Filename
		if key == "" {
			key = att.Name
		}
		converted = append(converted, model.RoteAttachment{
			ID:          uuid.NewString(),
			URL:         url,
			CompressURL: url,
			Storage:     model.StorageRemote,
			Details: model.AttachmentDetails{
				Key:      key,
				Size:     att.Size,
				MTime:    now,
				MimeType: attachmentMimeType(att.Type, att.MimeType),
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return converted, skipped
}

// normalizeDBAttachments is the relational-shape counterpart; row
// timestamps are carried over instead of generated.
func normalizeDBAttachments(atts []model.AttachmentRow) ([]model.RoteAttachment, int) {
	converted := make([]model.RoteAttachment, 0, len(atts))
	skipped := 0
	for _, att := range atts {
		if isLocalDBAttachment(att) {
			skipped++
			continue
		}
		created := formatEpochSeconds(att.CreatedTs)
		converted = append(converted, model.RoteAttachment{
			ID:          uuid.NewString(),
			URL:         att.Reference,
			CompressURL: att.Reference,
			Storage:     model.StorageRemote,
			Details: model.AttachmentDetails{
				Key:      att.Filename,
				Size:     att.Size,
				MTime:    created,
				MimeType: attachmentMimeType(att.Type, ""),
			},
			CreatedAt: created,
			UpdatedAt: formatEpochSeconds(att.UpdatedTs),
		})
	}
	return converted, skipped
}

func attachmentMimeType(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return model.DefaultMimeType
}

// formatEpochSeconds renders an epoch-seconds timestamp as ISO-8601
// UTC, going through millisecond epoch like the source schema expects.
func formatEpochSeconds(sec int64) string {
	return time.UnixMilli(sec * 1000).UTC().Format(time.RFC3339)
}
