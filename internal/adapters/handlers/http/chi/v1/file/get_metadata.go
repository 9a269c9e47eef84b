package file

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// V1FileMetadataResponse is the response to a metadata lookup
type V1FileMetadataResponse struct {
	Code         string     `json:"code"`
	OriginalName string     `json:"original_name"`
	Size         int64      `json:"size"`
	Mime         string     `json:"mime"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    *time.Time `json:"expires_at"`
	Downloads    int        `json:"downloads"`
	MaxDownloads int        `json:"max_downloads"`
}

// GetMetadataV1 is the function that handles GetMetadata
func (h *HandlerV1) GetMetadataV1(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	record, err := h.fileService.GetMetadata(r.Context(), code)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1FileMetadataResponse{
		Code:         record.Code,
		OriginalName: record.OriginalName,
		Size:         record.SizeBytes,
		Mime:         record.MimeType,
		CreatedAt:    record.CreatedAt,
		ExpiresAt:    record.ExpiresAt,
		Downloads:    record.Downloads,
		MaxDownloads: record.MaxDownloads,
	})
}
