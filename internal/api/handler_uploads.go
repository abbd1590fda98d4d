package api

import (
	"net/http"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/middleware"
)

type uploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

type uploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateUploadURL hands the caller a presigned PUT URL for one attachment.
func (h *Handler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	principal, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		middleware.WriteFailureJSON(w, domain.FailMissingToken)
		return
	}

	if h.uploads == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Code:    http.StatusServiceUnavailable,
			Message: "upload storage is not configured",
		})
		return
	}

	var req uploadRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "application/octet-stream"
	}

	issued, err := h.uploads.IssueUploadURL(r.Context(), principal, req.Filename, req.ContentType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{
		UploadURL: issued.URL,
		Key:       issued.Key,
		ExpiresAt: issued.ExpiresAt,
	})
}
