package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"pagemill/internal/domain"
	"pagemill/internal/httputil"
)

// handleError maps domain errors to HTTP responses. Typed HTTPError values
// carry their own status; sentinels cover wrapped errors; anything else is a
// logged 500.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var discErr *domain.DiscoveryError
	if errors.As(err, &discErr) {
		// Include the failing page so the console can offer a targeted retry.
		httputil.RespondErrorWithExtras(w, discErr.StatusCode(), discErr.Error(), map[string]interface{}{
			"page": discErr.Page,
		})
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDiscoveryBusy):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrCancellationRejected):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSubmission):
		httputil.RespondError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
