package file

import (
	"errors"
	"net/http"
	"strconv"
	"time"
)

// V1UploadFileResponse is the response to an upload
type V1UploadFileResponse struct {
	Code         string     `json:"code"`
	OriginalName string     `json:"originalName"`
	Size         int64      `json:"size"`
	Mime         string     `json:"mime"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	MaxDownloads int        `json:"maxDownloads"`
}

// UploadFileV1 stores the "file" part of a multipart form under a new code
func (h *HandlerV1) UploadFileV1(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseMultipartForm(h.uploadCfg.MaxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, V1ErrorResponse{Error: "file too large"})
			return
		}
		h.writeJSON(w, http.StatusBadRequest, V1ErrorResponse{Error: "invalid multipart form"})
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	src, header, err := r.FormFile("file")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, V1ErrorResponse{Error: "No file uploaded"})
		return
	}
	defer src.Close()

	if header.Size > h.uploadCfg.MaxFileSize {
		h.writeJSON(w, http.StatusRequestEntityTooLarge, V1ErrorResponse{Error: "file too large"})
		return
	}

	expiresMinutes, err := formInt(r, "expiresMinutes", h.uploadCfg.DefaultExpiresMinutes)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, V1ErrorResponse{Error: "expiresMinutes must be an integer"})
		return
	}
	maxDownloads, err := formInt(r, "maxDownloads", 0)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, V1ErrorResponse{Error: "maxDownloads must be an integer"})
		return
	}

	record, err := h.fileService.CreateFile(r.Context(), src, header.Filename, header.Header.Get("Content-Type"), expiresMinutes, maxDownloads)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, V1UploadFileResponse{
		Code:         record.Code,
		OriginalName: record.OriginalName,
		Size:         record.SizeBytes,
		Mime:         record.MimeType,
		ExpiresAt:    record.ExpiresAt,
		MaxDownloads: record.MaxDownloads,
	})
}

// formInt reads an integer form field, falling back to def when the field is absent or blank
func formInt(r *http.Request, key string, def int) (int, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
