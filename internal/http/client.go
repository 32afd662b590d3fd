package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "ytmp3"

// StatusError is returned when a server answers with anything but 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// Client wraps HTTP operations with a configured user agent and timeout.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - JSON decoding of API responses
//   - In-memory downloads for small payloads like cover art
//
// Example usage:
//
//	client := NewClient(30 * time.Second)
//
//	var out searchResponse
//	err := client.GetJSON(ctx, "https://itunes.apple.com/search?term=x", &out)
//
//	cover, err := client.DownloadBytes(ctx, artworkURL)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// A non-positive timeout selects 60 seconds. The user agent is
// DefaultUserAgent.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: DefaultUserAgent,
	}
}

// WithUserAgent returns a copy of c sending ua instead.
func (c *Client) WithUserAgent(ua string) *Client {
	cp := *c
	cp.userAgent = ua
	return &cp
}

// StdClient exposes the underlying net/http client for libraries that
// take one, such as the video retrieval client.
func (c *Client) StdClient() *http.Client {
	return c.httpClient
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns a *StatusError if the response status is not 200 OK.
//
// Example:
//
//	data, err := client.Get(ctx, "https://example.com/image.jpg")
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// GetJSON performs a GET request and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Use this for small files like cover art images.
//
// Example:
//
//	imageData, err := client.DownloadBytes(ctx, artworkURL)
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}
