// Package delivery hands converted output to the user without tying the
// orchestrator to any particular UI mechanism.
package delivery

import (
	"fmt"
	"mime"
	"net/http"
)

// Blob is a self-describing chunk of downloadable content.
type Blob struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Deliverer delivers a blob to the user. The orchestrator only ever talks to
// this interface; how the bytes reach the user (HTTP attachment, saved file,
// test buffer) is the implementation's business.
type Deliverer interface {
	Deliver(dst http.ResponseWriter, blob *Blob) error
}

// AttachmentDeliverer streams a blob as an HTTP download attachment.
type AttachmentDeliverer struct{}

// NewAttachmentDeliverer creates the standard HTTP attachment deliverer.
func NewAttachmentDeliverer() *AttachmentDeliverer {
	return &AttachmentDeliverer{}
}

// Deliver writes the blob with a Content-Disposition attachment header.
func (d *AttachmentDeliverer) Deliver(dst http.ResponseWriter, blob *Blob) error {
	if blob == nil {
		return fmt.Errorf("blob is nil")
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	dst.Header().Set("Content-Type", contentType)
	dst.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": blob.Filename,
	}))
	dst.Header().Set("Content-Length", fmt.Sprintf("%d", len(blob.Data)))

	if _, err := dst.Write(blob.Data); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}
