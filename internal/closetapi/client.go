// Package closetapi provides a client for the ClosetMate API gateway:
// wardrobe item CRUD, the background-removal processing endpoint, and the
// aggregate health check.
//
// All endpoints answer under a uniform envelope
// {success: bool, data?: T, error?: {code, message}}. The client surfaces
// gateway errors as *APIError with the code propagated verbatim; it never
// reinterprets them. Item payloads are returned as raw JSON because the
// catalog store owns normalization of the item shape.
package closetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/closetmate/closet-cli/internal/filehandler"
)

const (
	// defaultBaseURL is the local API gateway mount point.
	defaultBaseURL = "http://localhost:3000/api"

	// defaultTimeout covers the slow processing path; the gateway itself
	// allows 60s for the image processing service.
	defaultTimeout = 60 * time.Second
)

// Gateway error codes. Propagated to callers unchanged.
const (
	CodeItemNotFound     = "ITEM_NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidFileType  = "INVALID_FILE_TYPE"
	CodeProcessingFailed = "PROCESSING_FAILED"
	CodeServerError      = "SERVER_ERROR"
)

// APIError is a structured error from the gateway envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// envelope is the gateway response wrapper.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *APIError       `json:"error"`
}

// ProcessedImage is the result of the background-removal endpoint.
type ProcessedImage struct {
	ProcessedURL string `json:"processed_url"`
	OriginalURL  string `json:"original_url"`
	FileName     string `json:"file_name"`
	FileSize     int64  `json:"file_size"`
}

// ServiceHealth is one entry of the aggregate health response.
type ServiceHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthReport is the aggregate health of the gateway and its services.
type HealthReport struct {
	AllHealthy bool                     `json:"all_healthy"`
	Services   map[string]ServiceHealth `json:"services"`
}

// Client talks to the ClosetMate API gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the gateway base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithToken sets the bearer token attached to every request.
func WithToken(t string) Option {
	return func(c *Client) { c.token = t }
}

// WithTimeout overrides the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a gateway client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListItems fetches all wardrobe items. The raw body is returned for the
// catalog store to normalize.
func (c *Client) ListItems(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/wardrobe/items", "", nil)
}

// GetItem fetches a single wardrobe item by ID.
func (c *Client) GetItem(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/wardrobe/items/"+id, "", nil)
}

// ItemFields carries the optional metadata fields of a create or update.
// Nil pointers are omitted from the request entirely, which the gateway
// treats as "leave unchanged" on update and "default" on create.
type ItemFields struct {
	Name    *string
	Weather *string
}

// CreateItem uploads an image with optional metadata and creates an item.
func (c *Client) CreateItem(ctx context.Context, imagePath string, fields ItemFields) (json.RawMessage, error) {
	body, contentType, err := buildItemForm(imagePath, fields)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "/wardrobe/items", contentType, body)
}

// UpdateItem updates name, season and/or image of an existing item.
// imagePath may be empty when only metadata changes.
func (c *Client) UpdateItem(ctx context.Context, id, imagePath string, fields ItemFields) (json.RawMessage, error) {
	body, contentType, err := buildItemForm(imagePath, fields)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, "/wardrobe/items/"+id, contentType, body)
}

// DeleteItem removes an item from the wardrobe.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/wardrobe/items/"+id, "", nil)
	return err
}

// ProcessImage submits a file to the background-removal service and returns
// the processed image references.
func (c *Client) ProcessImage(ctx context.Context, imagePath string) (*ProcessedImage, error) {
	body, contentType, err := buildItemForm(imagePath, ItemFields{})
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, http.MethodPost, "/images/process", contentType, body)
	if err != nil {
		return nil, err
	}
	var result ProcessedImage
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse processing result: %w", err)
	}
	if result.ProcessedURL == "" {
		return nil, fmt.Errorf("unexpected processing result: no processed_url (body: %s)", truncate(string(raw), 200))
	}
	return &result, nil
}

// DownloadImage fetches image bytes from a URL returned by the gateway,
// e.g. a processed image for local preview. The caller owns the reader.
func (c *Client) DownloadImage(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download image: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Health checks the gateway and its downstream services.
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health/all", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("parse health response: %w", err)
	}
	return &report, nil
}

// buildItemForm assembles the multipart body shared by the create, update
// and process endpoints: an optional "image" file part plus optional
// "item_name" and "season" fields. The image part carries the real content
// type when the extension maps to an accepted one.
func buildItemForm(imagePath string, fields ItemFields) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return nil, "", fmt.Errorf("open image: %w", err)
		}
		defer f.Close()

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(imagePath)))
		ct := filehandler.SupportedImageExtensions[strings.ToLower(filepath.Ext(imagePath))]
		if !filehandler.IsAllowedMIME(ct) {
			ct = "application/octet-stream"
		}
		header.Set("Content-Type", ct)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", fmt.Errorf("copy image: %w", err)
		}
	}
	if fields.Name != nil {
		if err := w.WriteField("item_name", *fields.Name); err != nil {
			return nil, "", fmt.Errorf("write item_name: %w", err)
		}
	}
	if fields.Weather != nil {
		if err := w.WriteField("season", *fields.Weather); err != nil {
			return nil, "", fmt.Errorf("write season: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// do sends a request and unwraps the gateway envelope. It returns the raw
// data payload; bodies without an envelope are returned whole so the
// normalization layer can handle bare shapes.
func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader) (json.RawMessage, error) {
	startTime := time.Now()

	log.Debug().Str("method", method).Str("path", endpoint).Msg("Gateway request")
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Debug().Int("statusCode", 0).Dur("duration", duration).Err(err).Msg("Gateway response")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	log.Debug().Int("statusCode", httpResp.StatusCode).Dur("duration", duration).Msg("Gateway response")

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Bare array payloads do not decode into the envelope struct.
		if httpResp.StatusCode == http.StatusOK {
			return raw, nil
		}
		return nil, fmt.Errorf("parse response: %w (body: %s)", err, truncate(string(raw), 200))
	}

	if env.Error != nil {
		log.Error().Str("errorCode", env.Error.Code).Str("errorMessage", env.Error.Message).Msg("Gateway error")
		return nil, env.Error
	}
	if env.Success != nil && !*env.Success {
		return nil, &APIError{Code: CodeServerError, Message: "request failed without error detail"}
	}
	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{Code: CodeServerError, Message: fmt.Sprintf("unexpected status %d", httpResp.StatusCode)}
	}
	if env.Success != nil {
		return env.Data, nil
	}
	// No envelope marker at all: hand the whole body to normalization.
	return raw, nil
}

// truncate shortens s for inclusion in error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
