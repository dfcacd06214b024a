// Package webhook delivers notification payloads to vehicle and requester
// endpoints over HTTP.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/codec"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client posts payloads and treats any non-2xx answer as a failure.
type Client struct {
	httpClient *http.Client
	codec      codec.Codec
}

var _ ports.WebhookSender = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithCodec selects the body encoding; JSON by default.
func WithCodec(c codec.Codec) Option {
	return func(cl *Client) { cl.codec = c }
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		codec: codec.JSON,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Send(ctx context.Context, url string, payload map[string]any) error {
	body, err := c.codec.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", c.codec.ContentType())
	req.Header.Set("Accept", c.codec.ContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook: post %s: unexpected status %d", url, resp.StatusCode)
	}
	return nil
}
