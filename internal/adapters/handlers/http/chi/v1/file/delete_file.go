package file

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// V1DeleteFileResponse is the response to a revoke
type V1DeleteFileResponse struct {
	OK bool `json:"ok"`
}

// DeleteFileV1 revokes a code regardless of its expiry or quota
func (h *HandlerV1) DeleteFileV1(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.fileService.DeleteByCode(r.Context(), code); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1DeleteFileResponse{OK: true})
}
