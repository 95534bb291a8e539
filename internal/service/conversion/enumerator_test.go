package conversion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"pagemill/internal/domain"
	models "pagemill/internal/domain/models/conversion"
	convSvc "pagemill/internal/domain/services/conversion"
	"pagemill/internal/remote"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// libraryFixture is a deterministic 230-file library across 5 pages of 50.
// A file is eligible iff its index i satisfies i%23 < 8, which marks exactly
// 80 of the 230 files and intersperses them across every page.
type libraryFixture struct {
	files []models.ConvertibleFile
}

func newLibraryFixture() *libraryFixture {
	md := "markdown"
	files := make([]models.ConvertibleFile, 230)
	for i := range files {
		f := models.ConvertibleFile{
			ID:   fmt.Sprintf("file-%03d", i),
			Name: fmt.Sprintf("doc-%03d.pdf", i),
		}
		if i%23 < 8 {
			f.ProcessStatus = models.ProcessCompleted
		} else if i%2 == 0 {
			f.ProcessStatus = models.ProcessCompleted
			f.ConvertedFormat = &md
		} else {
			f.ProcessStatus = models.ProcessFailed
		}
		files[i] = f
	}
	return &libraryFixture{files: files}
}

func (l *libraryFixture) page(page, pageSize int) *remote.ListFilesResponse {
	start := (page - 1) * pageSize
	if start >= len(l.files) {
		return &remote.ListFilesResponse{HasNext: false, TotalPages: l.totalPages(pageSize)}
	}
	end := start + pageSize
	if end > len(l.files) {
		end = len(l.files)
	}
	return &remote.ListFilesResponse{
		Files:      l.files[start:end],
		HasNext:    end < len(l.files),
		TotalPages: l.totalPages(pageSize),
	}
}

func (l *libraryFixture) totalPages(pageSize int) int {
	return (len(l.files) + pageSize - 1) / pageSize
}

func (l *libraryFixture) eligibleIDs() []string {
	var ids []string
	for i := range l.files {
		if l.files[i].Eligible() {
			ids = append(ids, l.files[i].ID)
		}
	}
	return ids
}

func TestDiscoverReturnsEligibleFilesInOrder(t *testing.T) {
	lib := newLibraryFixture()
	client := newFakeClient()
	client.listFunc = func(libraryID string, page, pageSize int) (*remote.ListFilesResponse, error) {
		return lib.page(page, pageSize), nil
	}

	enum := NewEnumerator(client, testLogger())
	got, err := enum.Discover(context.Background(), &convSvc.DiscoverRequest{
		LibraryID: "lib-1",
		PageSize:  50,
		MaxPages:  10,
	}, nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := lib.eligibleIDs()
	if len(want) != 80 {
		t.Fatalf("fixture broken: %d eligible files, want 80", len(want))
	}
	if len(got) != len(want) {
		t.Fatalf("Discover() returned %d files, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].ID != want[i] {
			t.Fatalf("file %d = %s, want %s (order not preserved)", i, got[i].ID, want[i])
		}
	}
	if calls := client.listCallCount(); calls != 5 {
		t.Errorf("list calls = %d, want 5", calls)
	}
}

func TestDiscoverResultIndependentOfPageSize(t *testing.T) {
	lib := newLibraryFixture()

	for _, pageSize := range []int{10, 50, 100, 200} {
		t.Run(fmt.Sprintf("page_size_%d", pageSize), func(t *testing.T) {
			client := newFakeClient()
			client.listFunc = func(libraryID string, page, ps int) (*remote.ListFilesResponse, error) {
				return lib.page(page, ps), nil
			}

			enum := NewEnumerator(client, testLogger())
			got, err := enum.Discover(context.Background(), &convSvc.DiscoverRequest{
				LibraryID: "lib-1",
				PageSize:  pageSize,
				MaxPages:  100,
			}, nil)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if len(got) != 80 {
				t.Errorf("Discover() returned %d files, want 80", len(got))
			}
		})
	}
}

func TestDiscoverTerminatesAtMaxPages(t *testing.T) {
	client := newFakeClient()
	// A listing that always claims another page exists.
	client.listFunc = func(libraryID string, page, pageSize int) (*remote.ListFilesResponse, error) {
		return &remote.ListFilesResponse{
			Files:   []models.ConvertibleFile{{ID: fmt.Sprintf("file-%d", page), ProcessStatus: models.ProcessPending}},
			HasNext: true,
		}, nil
	}

	enum := NewEnumerator(client, testLogger())
	got, err := enum.Discover(context.Background(), &convSvc.DiscoverRequest{
		LibraryID: "lib-1",
		PageSize:  50,
		MaxPages:  7,
	}, nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if calls := client.listCallCount(); calls != 7 {
		t.Errorf("list calls = %d, want exactly 7", calls)
	}
	if len(got) != 7 {
		t.Errorf("Discover() returned %d files, want 7", len(got))
	}
}

func TestDiscoverPageErrorDiscardsPartialResults(t *testing.T) {
	lib := newLibraryFixture()
	client := newFakeClient()
	client.listFunc = func(libraryID string, page, pageSize int) (*remote.ListFilesResponse, error) {
		if page == 3 {
			return nil, errors.New("listing unavailable")
		}
		return lib.page(page, pageSize), nil
	}

	enum := NewEnumerator(client, testLogger())
	got, err := enum.Discover(context.Background(), &convSvc.DiscoverRequest{
		LibraryID: "lib-1",
		PageSize:  50,
		MaxPages:  10,
	}, nil)
	if err == nil {
		t.Fatal("Discover() expected error, got nil")
	}
	var discErr *domain.DiscoveryError
	if !errors.As(err, &discErr) {
		t.Fatalf("error = %T, want *domain.DiscoveryError", err)
	}
	if discErr.Page != 3 {
		t.Errorf("DiscoveryError.Page = %d, want 3", discErr.Page)
	}
	if got != nil {
		t.Errorf("partial results returned despite page error: %d files", len(got))
	}
}

func TestDiscoverReportsProgress(t *testing.T) {
	lib := newLibraryFixture()
	client := newFakeClient()
	client.listFunc = func(libraryID string, page, pageSize int) (*remote.ListFilesResponse, error) {
		return lib.page(page, pageSize), nil
	}

	var reported []convSvc.Progress
	enum := NewEnumerator(client, testLogger())
	_, err := enum.Discover(context.Background(), &convSvc.DiscoverRequest{
		LibraryID: "lib-1",
		PageSize:  50,
		MaxPages:  10,
	}, func(p convSvc.Progress) {
		reported = append(reported, p)
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(reported) != 5 {
		t.Fatalf("progress reported %d times, want 5", len(reported))
	}
	for i, p := range reported {
		if p.CurrentPage != i+1 {
			t.Errorf("progress %d: current_page = %d, want %d", i, p.CurrentPage, i+1)
		}
		if p.TotalPages != 5 {
			t.Errorf("progress %d: total_pages = %d, want 5", i, p.TotalPages)
		}
	}
}

func TestDiscoverRejectsConcurrentEnumeration(t *testing.T) {
	client := newFakeClient()
	entered := make(chan struct{})
	release := make(chan struct{})
	first := true
	client.listFunc = func(libraryID string, page, pageSize int) (*remote.ListFilesResponse, error) {
		if first {
			first = false
			close(entered)
			<-release
		}
		return &remote.ListFilesResponse{HasNext: false}, nil
	}

	enum := NewEnumerator(client, testLogger())

	firstDone := make(chan error, 1)
	go func() {
		_, err := enum.Discover(context.Background(), &convSvc.DiscoverRequest{LibraryID: "lib-1"}, nil)
		firstDone <- err
	}()

	<-entered
	_, err := enum.Discover(context.Background(), &convSvc.DiscoverRequest{LibraryID: "lib-1"}, nil)
	if !errors.Is(err, domain.ErrDiscoveryBusy) {
		t.Errorf("concurrent Discover() error = %v, want ErrDiscoveryBusy", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Errorf("first Discover() error = %v", err)
	}

	// The guard resets once the first enumeration finishes.
	if _, err := enum.Discover(context.Background(), &convSvc.DiscoverRequest{LibraryID: "lib-1"}, nil); err != nil {
		t.Errorf("follow-up Discover() error = %v", err)
	}
}

func TestDiscoverRequiresLibraryID(t *testing.T) {
	enum := NewEnumerator(newFakeClient(), testLogger())
	_, err := enum.Discover(context.Background(), &convSvc.DiscoverRequest{}, nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Discover() error = %v, want validation error", err)
	}
}
