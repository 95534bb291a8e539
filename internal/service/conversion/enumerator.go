package conversion

import (
	"context"
	"log/slog"
	"sync/atomic"

	"pagemill/internal/config"
	"pagemill/internal/domain"
	models "pagemill/internal/domain/models/conversion"
	convSvc "pagemill/internal/domain/services/conversion"
	"pagemill/internal/remote"
)

// enumerator implements the FileEnumerator interface
type enumerator struct {
	client   remote.Client
	logger   *slog.Logger
	inFlight atomic.Bool // re-entrancy guard: one enumeration at a time
}

// NewEnumerator creates a new eligible-file enumerator
func NewEnumerator(client remote.Client, logger *slog.Logger) convSvc.FileEnumerator {
	return &enumerator{
		client: client,
		logger: logger,
	}
}

// Discover walks the library's paginated listing sequentially, filtering
// each page through the eligibility predicate. It terminates when the remote
// reports no further page or MaxPages is reached - the latter holds even if
// the remote misreports has_next forever. Any page-fetch error aborts the
// enumeration and discards all partial results.
func (e *enumerator) Discover(ctx context.Context, req *convSvc.DiscoverRequest, onProgress convSvc.ProgressFunc) ([]models.ConvertibleFile, error) {
	if req == nil || req.LibraryID == "" {
		return nil, &domain.ValidationError{Message: "library ID is required"}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	if pageSize > config.MaxPageSize {
		pageSize = config.MaxPageSize
	}
	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = config.DefaultMaxPages
	}

	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrDiscoveryBusy
	}
	defer e.inFlight.Store(false)

	e.logger.Debug("discovery started",
		"library_id", req.LibraryID,
		"page_size", pageSize,
		"max_pages", maxPages,
	)

	var eligible []models.ConvertibleFile
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, &domain.DiscoveryError{Page: page, Err: err}
		}

		resp, err := e.client.ListFiles(ctx, req.LibraryID, page, pageSize, "")
		if err != nil {
			e.logger.Error("discovery page fetch failed",
				"library_id", req.LibraryID,
				"page", page,
				"error", err,
			)
			return nil, &domain.DiscoveryError{Page: page, Err: err}
		}

		for i := range resp.Files {
			if resp.Files[i].Eligible() {
				eligible = append(eligible, resp.Files[i])
			}
		}

		if onProgress != nil {
			onProgress(convSvc.Progress{CurrentPage: page, TotalPages: resp.TotalPages})
		}

		if !resp.HasNext {
			break
		}
		if page == maxPages {
			// Hard stop: defends against runaway iteration when the
			// listing keeps claiming more pages.
			e.logger.Warn("discovery stopped at page limit",
				"library_id", req.LibraryID,
				"max_pages", maxPages,
			)
		}
	}

	e.logger.Info("discovery finished",
		"library_id", req.LibraryID,
		"eligible", len(eligible),
	)
	return eligible, nil
}
