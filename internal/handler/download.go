package handler

import (
	"log/slog"
	"net/http"

	"pagemill/internal/delivery"
	"pagemill/internal/httputil"
	"pagemill/internal/remote"
)

// DownloadHandler fetches a converted file's output and hands it to the
// user through the Deliverer abstraction.
type DownloadHandler struct {
	client    remote.Client
	deliverer delivery.Deliverer
	logger    *slog.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(client remote.Client, deliverer delivery.Deliverer, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{
		client:    client,
		deliverer: deliverer,
		logger:    logger,
	}
}

// Download streams a converted file's output to the user
// GET /api/files/{id}/download
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	fileID := r.PathValue("id")
	if fileID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file ID is required")
		return
	}

	output, err := h.client.FetchOutput(r.Context(), fileID)
	if err != nil {
		h.logger.Error("failed to fetch converted output", "file_id", fileID, "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "failed to fetch converted output")
		return
	}

	blob := &delivery.Blob{
		Filename:    output.Filename,
		ContentType: output.ContentType,
		Data:        output.Data,
	}
	if err := h.deliverer.Deliver(w, blob); err != nil {
		// Headers may already be written; log instead of responding twice.
		h.logger.Error("blob delivery failed", "file_id", fileID, "error", err)
	}
}
