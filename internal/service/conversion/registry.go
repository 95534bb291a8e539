package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pagemill/internal/domain"
	models "pagemill/internal/domain/models/conversion"
	"pagemill/internal/domain/repositories"
)

// UpdateListener receives a copy of a job after every registry mutation.
// It is called outside the registry lock and may fan the update out to
// connected clients.
type UpdateListener func(job models.Job)

// Registry is the in-memory store of conversion job handles, ordered most
// recently created first. It is the only shared mutable state of the
// orchestrator; all mutation goes through the submitter, the poller, and
// the cancellation controller. Entries are never evicted automatically.
//
// The registry is a read-through cache of the remote service's job state,
// never authoritative. When a snapshot repository is configured, mutations
// are written through so a restarted session can resume polling.
type Registry struct {
	mu    sync.RWMutex
	jobs  map[string]*models.Job
	order []string // job IDs, most recently created first

	snapshots repositories.JobSnapshotRepository // optional
	listener  UpdateListener
	logger    *slog.Logger
}

// NewRegistry creates an empty registry. snapshots may be nil for a fully
// in-memory session.
func NewRegistry(snapshots repositories.JobSnapshotRepository, logger *slog.Logger) *Registry {
	return &Registry{
		jobs:      make(map[string]*models.Job),
		snapshots: snapshots,
		logger:    logger,
	}
}

// SetListener installs the update listener. Must be called during wiring,
// before the registry is shared.
func (r *Registry) SetListener(fn UpdateListener) {
	r.listener = fn
}

// Restore loads the previous session's snapshots, most recent first. It is
// a no-op without a snapshot repository.
func (r *Registry) Restore(ctx context.Context) error {
	if r.snapshots == nil {
		return nil
	}
	jobs, err := r.snapshots.List(ctx)
	if err != nil {
		return fmt.Errorf("restore job snapshots: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range jobs {
		job := jobs[i]
		if _, exists := r.jobs[job.ID]; exists {
			continue
		}
		r.jobs[job.ID] = &job
		r.order = append(r.order, job.ID)
	}

	r.logger.Info("job registry restored", "jobs", len(jobs))
	return nil
}

// Insert adds a freshly submitted job at the front of the ordering.
func (r *Registry) Insert(ctx context.Context, job *models.Job) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("job ID is required")
	}

	r.mu.Lock()
	if _, exists := r.jobs[job.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("job %s already registered", job.ID)
	}
	stored := *job
	r.jobs[job.ID] = &stored
	r.order = append([]string{job.ID}, r.order...)
	r.mu.Unlock()

	r.persist(ctx, &stored)
	r.notify(stored)
	return nil
}

// Apply folds a remote status observation into the identified job. The
// update is rejected - and the job left untouched - when it would violate
// the job's lifecycle invariants.
func (r *Registry) Apply(ctx context.Context, jobID string, u models.StatusUpdate, now time.Time) (*models.Job, error) {
	r.mu.Lock()
	job, ok := r.jobs[jobID]
	if !ok {
		r.mu.Unlock()
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("job %s not found", jobID)}
	}
	if err := job.Apply(u, now); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	updated := *job
	r.mu.Unlock()

	r.persist(ctx, &updated)
	r.notify(updated)
	return &updated, nil
}

// Get returns a copy of one job.
func (r *Registry) Get(jobID string) (models.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return models.Job{}, false
	}
	return *job, true
}

// List returns copies of all jobs, most recently created first.
func (r *Registry) List() []models.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Job, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.jobs[id])
	}
	return out
}

// NonTerminal returns copies of the jobs still worth polling, most recently
// created first.
func (r *Registry) NonTerminal() []models.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Job
	for _, id := range r.order {
		if !r.jobs[id].Status.Terminal() {
			out = append(out, *r.jobs[id])
		}
	}
	return out
}

// Len returns the number of registered jobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// persist writes a snapshot through to the repository. Snapshot failures are
// logged, not propagated: the in-memory handle stays valid and the remote
// service remains the source of truth.
func (r *Registry) persist(ctx context.Context, job *models.Job) {
	if r.snapshots == nil {
		return
	}
	if err := r.snapshots.Save(ctx, job); err != nil {
		r.logger.Warn("failed to persist job snapshot",
			"job_id", job.ID,
			"error", err,
		)
	}
}

func (r *Registry) notify(job models.Job) {
	if r.listener != nil {
		r.listener(job)
	}
}
