package conversion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pagemill/internal/domain"
	models "pagemill/internal/domain/models/conversion"
	convSvc "pagemill/internal/domain/services/conversion"
	"pagemill/internal/remote"
)

// refreshGate is the re-entrancy guard shared by every trigger of a refresh
// sweep (manual and scheduled). At most one sweep runs at a time; callers
// that lose the race are coalesced rather than queued, so overlapping
// triggers can never duplicate status queries for the same job.
type refreshGate struct {
	mu       sync.Mutex
	inFlight bool
}

func (g *refreshGate) tryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight {
		return false
	}
	g.inFlight = true
	return true
}

func (g *refreshGate) release() {
	g.mu.Lock()
	g.inFlight = false
	g.mu.Unlock()
}

// poller implements the ProgressPoller interface
type poller struct {
	client   remote.Client
	registry *Registry
	logger   *slog.Logger
	gate     refreshGate
}

// NewPoller creates a new progress poller
func NewPoller(client remote.Client, registry *Registry, logger *slog.Logger) convSvc.ProgressPoller {
	return &poller{
		client:   client,
		registry: registry,
		logger:   logger,
	}
}

// RefreshAll sweeps every non-terminal job in the registry. Jobs are
// refreshed sequentially - the orchestrator never assumes ordering between
// jobs, and sequential fetches avoid overwhelming the remote service. A
// failure on one job is logged and skipped; the sweep continues.
func (p *poller) RefreshAll(ctx context.Context) bool {
	if !p.gate.tryAcquire() {
		p.logger.Debug("refresh coalesced into in-flight sweep")
		return false
	}
	defer p.gate.release()

	jobs := p.registry.NonTerminal()
	for i := range jobs {
		if ctx.Err() != nil {
			p.logger.Warn("refresh sweep interrupted", "error", ctx.Err())
			return true
		}
		p.refreshOne(ctx, &jobs[i])
	}
	return true
}

// refreshOne fetches and applies one job's remote status. Errors are
// isolated here: they never propagate to sibling jobs.
func (p *poller) refreshOne(ctx context.Context, job *models.Job) {
	resp, err := p.client.GetJobStatus(ctx, job.ID)
	if err != nil {
		pollErr := &domain.PollError{JobID: job.ID, Err: err}
		p.logger.Error("job refresh failed", "job_id", job.ID, "error", pollErr)
		return
	}

	update := models.StatusUpdate{
		Status:         resp.Status,
		CompletedCount: resp.CompletedCount,
		FailedCount:    resp.FailedCount,
		ErrorMessage:   resp.ErrorMessage,
	}
	if _, err := p.registry.Apply(ctx, job.ID, update, time.Now()); err != nil {
		// Report-but-not-apply: a regression or malformed update from the
		// remote must never corrupt a terminal job.
		p.logger.Warn("ignoring invalid status update",
			"job_id", job.ID,
			"remote_status", resp.Status,
			"error", err,
		)
	}
}

// Scheduler drives periodic refresh sweeps as an explicit, controllable
// task: start, stop, and interval changes are first-class operations,
// independent of any UI lifecycle. It shares the poller's refresh gate, so
// a scheduled sweep and a manual one can never overlap.
type Scheduler struct {
	poller convSvc.ProgressPoller
	logger *slog.Logger

	mu       sync.Mutex
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler creates a stopped scheduler with the given sweep interval.
func NewScheduler(poller convSvc.ProgressPoller, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		poller:   poller,
		logger:   logger,
		interval: interval,
	}
}

// Start launches the periodic sweep loop. Starting a running scheduler is a
// no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

func (s *Scheduler) startLocked() {
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	interval := s.interval
	done := s.done
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.poller.RefreshAll(ctx)
			}
		}
	}()

	s.logger.Info("poll scheduler started", "interval", interval)
}

// Stop halts the sweep loop and waits for it to exit. Stopping a stopped
// scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	s.logger.Info("poll scheduler stopped")
}

// SetInterval changes the sweep period, restarting the loop when running.
func (s *Scheduler) SetInterval(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = interval
	if s.cancel != nil {
		s.stopLocked()
		s.startLocked()
	}
}

// Interval returns the configured sweep period.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Running reports whether the sweep loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
