package conversion

import (
	"testing"
	"time"
)

func TestJobStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from JobStatus
		to   JobStatus
		want bool
	}{
		{name: "pending to processing", from: JobPending, to: JobProcessing, want: true},
		{name: "pending to completed", from: JobPending, to: JobCompleted, want: true},
		{name: "pending to cancelled", from: JobPending, to: JobCancelled, want: true},
		{name: "processing to completed", from: JobProcessing, to: JobCompleted, want: true},
		{name: "processing to failed", from: JobProcessing, to: JobFailed, want: true},
		{name: "processing to cancelled", from: JobProcessing, to: JobCancelled, want: true},
		{name: "processing back to pending", from: JobProcessing, to: JobPending, want: false},
		{name: "completed to processing", from: JobCompleted, to: JobProcessing, want: false},
		{name: "completed to cancelled", from: JobCompleted, to: JobCancelled, want: false},
		{name: "failed to completed", from: JobFailed, to: JobCompleted, want: false},
		{name: "cancelled to processing", from: JobCancelled, to: JobProcessing, want: false},
		{name: "same state is a no-op", from: JobProcessing, to: JobProcessing, want: true},
		{name: "terminal same state is a no-op", from: JobCompleted, to: JobCompleted, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestJobApply(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		job     Job
		update  StatusUpdate
		wantErr bool
	}{
		{
			name:   "progress within bounds",
			job:    Job{Status: JobProcessing, FileCount: 10},
			update: StatusUpdate{Status: JobProcessing, CompletedCount: 4, FailedCount: 2},
		},
		{
			name:   "completion",
			job:    Job{Status: JobProcessing, FileCount: 10},
			update: StatusUpdate{Status: JobCompleted, CompletedCount: 10},
		},
		{
			name:    "counters exceed file count",
			job:     Job{Status: JobProcessing, FileCount: 10},
			update:  StatusUpdate{Status: JobProcessing, CompletedCount: 8, FailedCount: 3},
			wantErr: true,
		},
		{
			name:    "negative counter",
			job:     Job{Status: JobProcessing, FileCount: 10},
			update:  StatusUpdate{Status: JobProcessing, CompletedCount: -1},
			wantErr: true,
		},
		{
			name:    "regression out of terminal state",
			job:     Job{Status: JobCompleted, FileCount: 10, CompletedCount: 10},
			update:  StatusUpdate{Status: JobProcessing, CompletedCount: 5},
			wantErr: true,
		},
		{
			name:    "unknown status",
			job:     Job{Status: JobPending, FileCount: 10},
			update:  StatusUpdate{Status: "exploded"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.job
			err := tt.job.Apply(tt.update, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if tt.job != before {
					t.Errorf("job mutated despite rejected update: %+v", tt.job)
				}
				return
			}
			if tt.job.Status != tt.update.Status {
				t.Errorf("status = %s, want %s", tt.job.Status, tt.update.Status)
			}
			if !tt.job.UpdatedAt.Equal(now) {
				t.Errorf("UpdatedAt not advanced")
			}
		})
	}
}

func TestConvertibleFileEligible(t *testing.T) {
	md := "markdown"
	empty := ""

	tests := []struct {
		name string
		file ConvertibleFile
		want bool
	}{
		{name: "completed unconverted", file: ConvertibleFile{ProcessStatus: ProcessCompleted}, want: true},
		{name: "pending unconverted", file: ConvertibleFile{ProcessStatus: ProcessPending}, want: true},
		{name: "processing", file: ConvertibleFile{ProcessStatus: ProcessProcessing}, want: false},
		{name: "failed", file: ConvertibleFile{ProcessStatus: ProcessFailed}, want: false},
		{name: "already converted", file: ConvertibleFile{ProcessStatus: ProcessCompleted, ConvertedFormat: &md}, want: false},
		{name: "empty converted format counts as unconverted", file: ConvertibleFile{ProcessStatus: ProcessCompleted, ConvertedFormat: &empty}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.file.Eligible(); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}
