package conversion

// ProcessStatus is the remote processing state of a library file.
type ProcessStatus string

const (
	ProcessPending    ProcessStatus = "pending"
	ProcessProcessing ProcessStatus = "processing"
	ProcessCompleted  ProcessStatus = "completed"
	ProcessFailed     ProcessStatus = "failed"
)

// ConvertibleFile is a library file as reported by the remote listing.
type ConvertibleFile struct {
	ID              string        `json:"id"`
	Name            string        `json:"name,omitempty"`
	ProcessStatus   ProcessStatus `json:"process_status"`
	ConvertedFormat *string       `json:"converted_format,omitempty"` // nil = not converted yet
}

// Eligible reports whether the file qualifies for conversion: its process
// status is completed or pending and it has not already been converted.
func (f *ConvertibleFile) Eligible() bool {
	if f.ConvertedFormat != nil && *f.ConvertedFormat != "" {
		return false
	}
	return f.ProcessStatus == ProcessCompleted || f.ProcessStatus == ProcessPending
}
