package file

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// DownloadFileV1 streams the file behind a code as an attachment and counts one download
func (h *HandlerV1) DownloadFileV1(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	reader, record, err := h.fileService.FetchForDownload(r.Context(), code)
	if err != nil {
		status, msg := h.statusFor(err)
		http.Error(w, msg, status)
		return
	}
	defer reader.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": record.OriginalName})
	if disposition == "" {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", record.MimeType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.FormatInt(record.SizeBytes, 10))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("download interrupted", "code", record.Code, "error", err)
	}
}
