package conversion

import (
	"context"
	"fmt"
	"sync"

	models "pagemill/internal/domain/models/conversion"
	"pagemill/internal/remote"
)

// fakeClient is an in-memory remote.Client for tests. Behavior is injected
// per call via the *Func fields; every call is counted so tests can assert
// on the exact number of network operations.
type fakeClient struct {
	mu sync.Mutex

	listFunc   func(libraryID string, page, pageSize int) (*remote.ListFilesResponse, error)
	submitFunc func(libraryID string, fileIDs []string, cfg *models.Config) (*remote.SubmitResponse, error)
	statusFunc func(jobID string) (*remote.JobStatusResponse, error)
	cancelFunc func(jobID string) (*remote.CancelResponse, error)

	listCalls   int
	submitCalls int
	statusCalls map[string]int
	cancelCalls int
}

func newFakeClient() *fakeClient {
	return &fakeClient{statusCalls: make(map[string]int)}
}

func (f *fakeClient) ListFiles(ctx context.Context, libraryID string, page, pageSize int, statusFilter string) (*remote.ListFilesResponse, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.listFunc
	f.mu.Unlock()
	if fn == nil {
		return &remote.ListFilesResponse{}, nil
	}
	return fn(libraryID, page, pageSize)
}

func (f *fakeClient) SubmitConversion(ctx context.Context, libraryID string, fileIDs []string, cfg *models.Config) (*remote.SubmitResponse, error) {
	f.mu.Lock()
	f.submitCalls++
	fn := f.submitFunc
	f.mu.Unlock()
	if fn == nil {
		return &remote.SubmitResponse{JobID: "job-1", Status: models.JobPending}, nil
	}
	return fn(libraryID, fileIDs, cfg)
}

func (f *fakeClient) GetJobStatus(ctx context.Context, jobID string) (*remote.JobStatusResponse, error) {
	f.mu.Lock()
	f.statusCalls[jobID]++
	fn := f.statusFunc
	f.mu.Unlock()
	if fn == nil {
		return &remote.JobStatusResponse{Status: models.JobProcessing}, nil
	}
	return fn(jobID)
}

func (f *fakeClient) CancelJob(ctx context.Context, jobID string) (*remote.CancelResponse, error) {
	f.mu.Lock()
	f.cancelCalls++
	fn := f.cancelFunc
	f.mu.Unlock()
	if fn == nil {
		return &remote.CancelResponse{Accepted: true}, nil
	}
	return fn(jobID)
}

func (f *fakeClient) FetchOutput(ctx context.Context, fileID string) (*remote.Output, error) {
	return nil, fmt.Errorf("not implemented in fake")
}

func (f *fakeClient) listCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeClient) submitCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCalls
}

func (f *fakeClient) statusCallCount(jobID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls[jobID]
}

func (f *fakeClient) cancelCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelCalls
}
