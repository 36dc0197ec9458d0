package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ironsheep/photo-editor/internal/edit"
)

// DefaultTimeout bounds a single call when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// maxResponseSize bounds image responses.
const maxResponseSize = 128 << 20

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service returned HTTP %d", e.Code)
	}
	return fmt.Sprintf("service returned HTTP %d: %s", e.Code, e.Message)
}

// Client calls a remote image processing service. It implements the
// session's Processor interface. Calls are never retried.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client, including its timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.client = &http.Client{Timeout: d} }
}

// WithClientLogger sets the client logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for the service at endpoint, e.g.
// "http://127.0.0.1:8000".
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload sends raw as the multipart field "file".
func (c *Client) Upload(ctx context.Context, raw []byte) (edit.ImageRef, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "upload")
	if err != nil {
		return edit.ImageRef{}, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(raw); err != nil {
		return edit.ImageRef{}, fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return edit.ImageRef{}, fmt.Errorf("build upload: %w", err)
	}
	return c.post(ctx, "/upload", mw.FormDataContentType(), &body)
}

// Adjust posts a ProcessRequest.
func (c *Client) Adjust(ctx context.Context, base edit.ImageRef, params edit.AdjustmentParams, filters edit.FilterSet) (edit.ImageRef, error) {
	return c.postJSON(ctx, "/process", NewProcessRequest(base, params, filters))
}

// Transform posts a TransformRequest.
func (c *Client) Transform(ctx context.Context, img edit.ImageRef, op edit.TransformOp) (edit.ImageRef, error) {
	return c.postJSON(ctx, "/transform", NewTransformRequest(img, op))
}

// Health checks that the service answers.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP GET %s: %w", req.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readStatusError(resp)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, v any) (edit.ImageRef, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return edit.ImageRef{}, fmt.Errorf("marshal request: %w", err)
	}
	return c.post(ctx, path, "application/json", bytes.NewReader(body))
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (edit.ImageRef, error) {
	url := c.endpoint + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return edit.ImageRef{}, err
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return edit.ImageRef{}, fmt.Errorf("HTTP POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return edit.ImageRef{}, readStatusError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return edit.ImageRef{}, fmt.Errorf("read response: %w", err)
	}
	if len(data) > maxResponseSize {
		return edit.ImageRef{}, fmt.Errorf("response from %s exceeds %d bytes", url, maxResponseSize)
	}
	img, err := edit.DecodeImageRef(data)
	if err != nil {
		return edit.ImageRef{}, fmt.Errorf("response from %s: %w", url, err)
	}
	c.logger.Debug("remote: call done", "path", path, "image", img.String(), "elapsed", time.Since(start))
	return img, nil
}

func readStatusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
