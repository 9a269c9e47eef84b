package file

import (
	"code-drop/internal/config"
	"code-drop/internal/core/domain"
	"code-drop/internal/core/port"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// multipartOverhead leaves room for boundaries and form fields around the file part
const multipartOverhead = 1 << 20

// HandlerV1 is the handler for v1 file routes
type HandlerV1 struct {
	fileService port.FileService
	uploadCfg   config.FileUploadConfig
	logger      *slog.Logger
}

// NewFileHandlerV1 creates HandlerV1
func NewFileHandlerV1(service port.FileService, uploadCfg config.FileUploadConfig, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		fileService: service,
		uploadCfg:   uploadCfg,
		logger:      logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequestSize(h.uploadCfg.MaxFileSize+multipartOverhead)).Post("/", h.UploadFileV1)
	router.Get("/{code}", h.GetMetadataV1)
	router.Get("/{code}/download", h.DownloadFileV1)
	router.Delete("/{code}", h.DeleteFileV1)

	return router
}

// V1ErrorResponse is the body of every failed JSON request
type V1ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

// statusFor maps service errors to an HTTP status and a client message
func (h *HandlerV1) statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCode):
		return http.StatusBadRequest, "invalid code"
	case errors.Is(err, domain.ErrFileNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrFileExpired):
		return http.StatusGone, "expired"
	case errors.Is(err, domain.ErrDownloadLimitReached):
		return http.StatusGone, "download limit reached"
	case errors.Is(err, domain.ErrStorageIO), errors.Is(err, domain.ErrCodeSpaceExhausted):
		h.logger.Error("service unavailable", "error", err)
		return http.StatusServiceUnavailable, "service unavailable"
	default:
		h.logger.Error("internal error", "error", err)
		return http.StatusInternalServerError, "internal server error"
	}
}

func (h *HandlerV1) writeError(w http.ResponseWriter, err error) {
	status, msg := h.statusFor(err)
	h.writeJSON(w, status, V1ErrorResponse{Error: msg})
}
