package handler

import (
	"log/slog"
	"net/http"
	"time"

	"pagemill/internal/config"
	"pagemill/internal/httputil"
	"pagemill/internal/service/conversion"
)

// PollerHandler controls the refresh scheduler over HTTP
type PollerHandler struct {
	scheduler *conversion.Scheduler
	logger    *slog.Logger
}

// NewPollerHandler creates a new poller control handler
func NewPollerHandler(scheduler *conversion.Scheduler, logger *slog.Logger) *PollerHandler {
	return &PollerHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// pollerState is the scheduler's externally visible state.
type pollerState struct {
	Running         bool `json:"running"`
	IntervalSeconds int  `json:"interval_seconds"`
}

func (h *PollerHandler) state() pollerState {
	return pollerState{
		Running:         h.scheduler.Running(),
		IntervalSeconds: int(h.scheduler.Interval() / time.Second),
	}
}

// GetState reports whether the scheduler runs and at what interval
// GET /api/poller
func (h *PollerHandler) GetState(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.state())
}

// Start launches the periodic refresh loop
// POST /api/poller/start
func (h *PollerHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Start()
	httputil.RespondJSON(w, http.StatusOK, h.state())
}

// Stop halts the periodic refresh loop
// POST /api/poller/stop
func (h *PollerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Stop()
	httputil.RespondJSON(w, http.StatusOK, h.state())
}

// updateIntervalRequest changes the sweep period.
type updateIntervalRequest struct {
	IntervalSeconds int `json:"interval_seconds"`
}

// UpdateInterval changes the sweep period
// PATCH /api/poller
func (h *PollerHandler) UpdateInterval(w http.ResponseWriter, r *http.Request) {
	var req updateIntervalRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.IntervalSeconds <= 0 {
		httputil.RespondError(w, http.StatusBadRequest, "interval_seconds must be positive")
		return
	}

	interval := time.Duration(req.IntervalSeconds) * time.Second
	if interval < config.MinPollInterval {
		interval = config.MinPollInterval
	}
	h.scheduler.SetInterval(interval)

	h.logger.Info("poll interval updated", "interval", interval)
	httputil.RespondJSON(w, http.StatusOK, h.state())
}
