// Package client provides public client for board posts API.
package client

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/udovin/board/internal/api"
)

type (
	ClientOption = api.ClientOption

	Post          = api.Post
	PostForm      = api.PostForm
	ResponseError = api.ResponseError
)

type Client struct {
	*api.Client
}

func WithTransport(transport http.RoundTripper) ClientOption {
	return api.WithTransport(transport)
}

func WithTimeout(timeout time.Duration) ClientOption {
	return api.WithTimeout(timeout)
}

func WithHeader(key, value string) ClientOption {
	return api.WithHeader(key, value)
}

// WithUnixSocket sends all requests through specified unix socket.
func WithUnixSocket(path string) ClientOption {
	return api.WithTransport(&http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var dialer net.Dialer
			return dialer.DialContext(ctx, "unix", path)
		},
	})
}

// NewClient returns new board API client.
func NewClient(endpoint string, options ...ClientOption) *Client {
	return &Client{
		Client: api.NewClient(endpoint, options...),
	}
}
