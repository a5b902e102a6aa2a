package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client pushes shop images (logo, cover) to the external media host and
// returns the public URL to store in shop config.
type Client interface {
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
	ProviderID() string
}

type HTTPClient struct {
	url   string
	token string
	http  *http.Client
}

func NewHTTPClient(url string, token string) *HTTPClient {
	return &HTTPClient{
		url:   strings.TrimSpace(url),
		token: strings.TrimSpace(token),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *HTTPClient) ProviderID() string {
	return "uploads-http"
}

func (c *HTTPClient) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	if c.url == "" {
		return "", errors.New("uploads url not configured")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.New("uploads host returned non-2xx")
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.URL == "" {
		return "", errors.New("uploads host returned empty url")
	}
	return body.URL, nil
}

// NoopClient is used when no media host is configured; uploads succeed with
// an empty URL so local development does not need the host running.
type NoopClient struct{}

func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

func (c *NoopClient) ProviderID() string {
	return "uploads-noop"
}

func (c *NoopClient) Upload(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", nil
}
