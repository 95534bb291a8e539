package handler

import (
	"log/slog"
	"net/http"
	"sync"

	models "pagemill/internal/domain/models/conversion"
	convSvc "pagemill/internal/domain/services/conversion"
	"pagemill/internal/httputil"
	"pagemill/internal/service/conversion"
)

// ConversionHandler exposes the conversion job orchestrator over HTTP
type ConversionHandler struct {
	enumerator convSvc.FileEnumerator
	submitter  convSvc.JobSubmitter
	poller     convSvc.ProgressPoller
	canceller  convSvc.JobCanceller
	registry   *conversion.Registry
	logger     *slog.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(
	enumerator convSvc.FileEnumerator,
	submitter convSvc.JobSubmitter,
	poller convSvc.ProgressPoller,
	canceller convSvc.JobCanceller,
	registry *conversion.Registry,
	logger *slog.Logger,
) *ConversionHandler {
	return &ConversionHandler{
		enumerator: enumerator,
		submitter:  submitter,
		poller:     poller,
		canceller:  canceller,
		registry:   registry,
		logger:     logger,
	}
}

// discoverRequest is the body of a discovery call. Zero values fall back to
// the configured defaults.
type discoverRequest struct {
	PageSize int `json:"page_size"`
	MaxPages int `json:"max_pages"`
}

// discoverResponse carries the eligible files plus the final enumeration
// position for the console's progress display.
type discoverResponse struct {
	Files       []models.ConvertibleFile `json:"files"`
	Total       int                      `json:"total"`
	PagesWalked int                      `json:"pages_walked"`
}

// Discover runs a discovery enumeration over a library
// POST /api/libraries/{id}/discover
func (h *ConversionHandler) Discover(w http.ResponseWriter, r *http.Request) {
	libraryID := r.PathValue("id")
	if libraryID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "library ID is required")
		return
	}

	var req discoverRequest
	if r.ContentLength > 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var (
		mu   sync.Mutex
		last convSvc.Progress
	)
	files, err := h.enumerator.Discover(r.Context(), &convSvc.DiscoverRequest{
		LibraryID: libraryID,
		PageSize:  req.PageSize,
		MaxPages:  req.MaxPages,
	}, func(p convSvc.Progress) {
		mu.Lock()
		last = p
		mu.Unlock()
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if files == nil {
		files = []models.ConvertibleFile{}
	}
	httputil.RespondJSON(w, http.StatusOK, discoverResponse{
		Files:       files,
		Total:       len(files),
		PagesWalked: last.CurrentPage,
	})
}

// submitRequest is the body of a job submission.
type submitRequest struct {
	FileIDs []string      `json:"file_ids"`
	Config  models.Config `json:"config"`
}

// Submit submits a batch conversion job
// POST /api/libraries/{id}/conversions
func (h *ConversionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	libraryID := r.PathValue("id")
	if libraryID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "library ID is required")
		return
	}

	var req submitRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.submitter.Submit(r.Context(), &convSvc.SubmitRequest{
		LibraryID: libraryID,
		FileIDs:   req.FileIDs,
		Config:    req.Config,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, job)
}

// jobListResponse wraps the registry listing.
type jobListResponse struct {
	Jobs  []models.Job `json:"jobs"`
	Total int          `json:"total"`
}

// ListJobs returns all tracked jobs, most recently created first
// GET /api/conversions
func (h *ConversionHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.registry.List()
	if jobs == nil {
		jobs = []models.Job{}
	}
	httputil.RespondJSON(w, http.StatusOK, jobListResponse{Jobs: jobs, Total: len(jobs)})
}

// GetJob returns a single tracked job
// GET /api/conversions/{id}
func (h *ConversionHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	job, ok := h.registry.Get(jobID)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "job not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, job)
}

// Refresh triggers a manual refresh sweep
// POST /api/conversions/refresh
func (h *ConversionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	swept := h.poller.RefreshAll(r.Context())
	httputil.RespondJSON(w, http.StatusAccepted, map[string]interface{}{
		"swept":     swept,
		"coalesced": !swept,
	})
}

// Cancel requests cancellation of an in-flight job
// POST /api/conversions/{id}/cancel
func (h *ConversionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if err := h.canceller.Cancel(r.Context(), jobID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	// The job keeps its last-known status until a poll confirms the
	// cancellation; return the current handle so the UI shows that.
	job, _ := h.registry.Get(jobID)
	httputil.RespondJSON(w, http.StatusAccepted, job)
}

// HealthCheck reports service liveness
// GET /health
func (h *ConversionHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
