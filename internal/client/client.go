// Package client talks to the upload service over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/volume-uploader/backend/internal/models"
)

// MIMEMsgpack is the media type requested for compact listings.
const MIMEMsgpack = "application/msgpack"

// Client calls POST /upload and GET /files. Only the JSON success flag
// decides the outcome; HTTP status codes are not inspected.
type Client struct {
	baseURL    string
	httpClient *http.Client
	msgpack    bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMsgpack requests listings as msgpack instead of JSON.
func WithMsgpack() Option {
	return func(c *Client) { c.msgpack = true }
}

// New creates a client for the service at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload streams body as the multipart field "file" named name.
func (c *Client) Upload(ctx context.Context, name string, body io.Reader) (*models.UploadResponse, error) {
	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, body); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding upload response (HTTP %d): %w", resp.StatusCode, err)
	}
	return &out, nil
}

// ListFiles fetches the current listing.
func (c *Client) ListFiles(ctx context.Context) (*models.ListResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files", nil)
	if err != nil {
		return nil, err
	}
	if c.msgpack {
		req.Header.Set("Accept", MIMEMsgpack)
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out models.ListResponse
	if strings.HasPrefix(resp.Header.Get("Content-Type"), MIMEMsgpack) {
		err = msgpack.NewDecoder(resp.Body).Decode(&out)
	} else {
		err = json.NewDecoder(resp.Body).Decode(&out)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding file list (HTTP %d): %w", resp.StatusCode, err)
	}
	return &out, nil
}

// Health fetches GET /health.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out models.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding health (HTTP %d): %w", resp.StatusCode, err)
	}
	return &out, nil
}
