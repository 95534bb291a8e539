package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagemill/internal/domain/models/conversion"
)

const (
	// DefaultTimeout is the default HTTP timeout for remote service calls.
	DefaultTimeout = 30 * time.Second
)

// HTTPClient implements Client against the conversion service's REST API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a remote service client.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// NewHTTPClientWithConfig creates a client with custom configuration.
func NewHTTPClientWithConfig(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	c := NewHTTPClient(baseURL, apiKey)
	c.httpClient.Timeout = timeout
	return c
}

// ListFiles implements Client.
func (c *HTTPClient) ListFiles(ctx context.Context, libraryID string, page, pageSize int, statusFilter string) (*ListFilesResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if statusFilter != "" {
		q.Set("process_status", statusFilter)
	}
	endpoint := fmt.Sprintf("%s/api/v1/libraries/%s/files?%s",
		c.baseURL, url.PathEscape(libraryID), q.Encode())

	var out ListFilesResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitConversion implements Client.
func (c *HTTPClient) SubmitConversion(ctx context.Context, libraryID string, fileIDs []string, cfg *conversion.Config) (*SubmitResponse, error) {
	payload := map[string]interface{}{
		"file_ids": fileIDs,
		"config":   cfg,
		// Client-generated reference so a retried submission is traceable
		// in the remote service's logs.
		"client_ref": uuid.New().String(),
	}
	endpoint := fmt.Sprintf("%s/api/v1/libraries/%s/conversions",
		c.baseURL, url.PathEscape(libraryID))

	var out SubmitResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJobStatus implements Client.
func (c *HTTPClient) GetJobStatus(ctx context.Context, jobID string) (*JobStatusResponse, error) {
	endpoint := fmt.Sprintf("%s/api/v1/conversions/%s", c.baseURL, url.PathEscape(jobID))

	var out JobStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelJob implements Client.
func (c *HTTPClient) CancelJob(ctx context.Context, jobID string) (*CancelResponse, error) {
	endpoint := fmt.Sprintf("%s/api/v1/conversions/%s/cancel", c.baseURL, url.PathEscape(jobID))

	var out CancelResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchOutput implements Client.
func (c *HTTPClient) FetchOutput(ctx context.Context, fileID string) (*Output, error) {
	endpoint := fmt.Sprintf("%s/api/v1/files/%s/output", c.baseURL, url.PathEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(data))
	}

	return &Output{
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition"), fileID),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// doJSON executes a JSON request/response round trip against the service.
func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// filenameFromDisposition extracts the filename from a Content-Disposition
// header, falling back to the file ID when the header is absent or mangled.
func filenameFromDisposition(disposition, fallback string) string {
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return fallback
	}
	if name := params["filename"]; name != "" {
		return name
	}
	return fallback
}
