package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client represents client for posts API.
type Client struct {
	endpoint string
	client   http.Client
	Headers  map[string]string
}

type ClientOption func(*Client)

// WithTransport sets transport of client (for example over unix socket).
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.client.Transport = transport
	}
}

// WithTimeout sets timeout for each request.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// WithHeader adds header to every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		if c.Headers == nil {
			c.Headers = map[string]string{}
		}
		c.Headers[key] = value
	}
}

// NewClient returns new posts API client.
//
// Requests have no timeout unless WithTimeout is specified.
func NewClient(endpoint string, options ...ClientOption) *Client {
	c := Client{endpoint: endpoint}
	for _, option := range options {
		option(&c)
	}
	return &c
}

// ObservePosts returns all posts.
//
// When response is valid JSON but not an array, nil posts are returned
// without error. Empty array results in empty non-nil posts.
func (c *Client) ObservePosts(ctx context.Context) ([]Post, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.getURL("/api/posts"), nil,
	)
	if err != nil {
		return nil, err
	}
	var respData json.RawMessage
	if err := c.doRequest(req, &respData); err != nil {
		return nil, err
	}
	if !isJSONArray(respData) {
		return nil, nil
	}
	posts := []Post{}
	if err := json.Unmarshal(respData, &posts); err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	return posts, nil
}

// CreatePost creates a new post.
func (c *Client) CreatePost(ctx context.Context, form PostForm) error {
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.getURL("/api/posts"), bytes.NewReader(data),
	)
	if err != nil {
		return err
	}
	return c.doRequest(req, nil)
}

// UpdatePost updates title and content of post.
func (c *Client) UpdatePost(ctx context.Context, id int64, form PostForm) error {
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPut, c.getURL("/api/posts/%d", id), bytes.NewReader(data),
	)
	if err != nil {
		return err
	}
	return c.doRequest(req, nil)
}

// DeletePost deletes post.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodDelete, c.getURL("/api/posts/%d", id), nil,
	)
	if err != nil {
		return err
	}
	return c.doRequest(req, nil)
}

func (c *Client) getURL(path string, args ...any) string {
	return c.endpoint + fmt.Sprintf(path, args...)
}

// doRequest sends request and decodes response body into respData.
//
// Body of response with status outside of 2xx is not parsed.
func (c *Client) doRequest(req *http.Request, respData any) error {
	if len(req.Header.Get("Content-Type")) == 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	for key, value := range c.Headers {
		req.Header.Set(key, value)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &ResponseError{
			Method:     req.Method,
			Path:       req.URL.Path,
			Code:       resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
	}
	if respData == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respData); err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// ResponseError represents response with unsuccessful status.
type ResponseError struct {
	Method     string
	Path       string
	Code       int
	StatusText string
}

// Error returns text representation of error.
func (r *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", r.Method, r.Path, r.Code, r.StatusText)
}

// StatusCode returns response status code.
func (r *ResponseError) StatusCode() int {
	return r.Code
}

func isJSONArray(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	return len(data) > 0 && data[0] == '['
}
