// Package peers binds orchestrator ports to collaborators running as
// separate processes, speaking the peerwire messages over HTTP.
package peers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"parcel-dispatch/internal/adapters/peerwire"
	"parcel-dispatch/internal/pkg/codec"
	"parcel-dispatch/internal/pkg/errs"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBody = 1 << 20

// Config is shared by every peer client.
type Config struct {
	BaseURL    string
	Codec      codec.Codec
	Timeout    time.Duration
	HTTPClient *http.Client
}

type client struct {
	baseURL    string
	dependency string
	codec      codec.Codec
	http       *http.Client
}

func newClient(dependency string, cfg Config) client {
	c := client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/internal/v1",
		dependency: dependency,
		codec:      cfg.Codec,
		http:       cfg.HTTPClient,
	}
	if c.codec == nil {
		c.codec = codec.JSON
	}
	if c.http == nil {
		c.http = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return c
}

// do sends in (when non-nil) and decodes a 2xx answer into out (when
// non-nil). Transport failures and 5xx answers become
// DependencyUnavailable; error bodies are mapped back by peerwire.Restore.
func (c client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := c.codec.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.dependency, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.dependency, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", c.codec.ContentType())
	}
	req.Header.Set("Accept", c.codec.ContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.NewDependencyUnavailableErrorWithCause(c.dependency, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return errs.NewDependencyUnavailableErrorWithCause(c.dependency, err)
	}

	respCodec, ok := codec.ForContentType(resp.Header.Get("Content-Type"))
	if !ok {
		respCodec = c.codec
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg peerwire.ErrorMessage
		if len(data) > 0 {
			_ = respCodec.Unmarshal(data, &msg)
		}
		if msg.Message == "" {
			msg.Message = fmt.Sprintf("%s %s answered %d", method, path, resp.StatusCode)
		}
		if resp.StatusCode >= 500 {
			msg.Code = peerwire.CodeUnavailable
		}
		return peerwire.Restore(c.dependency, resp.StatusCode, msg)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := respCodec.Unmarshal(data, out); err != nil {
		return errs.NewDependencyUnavailableErrorWithCause(c.dependency, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
