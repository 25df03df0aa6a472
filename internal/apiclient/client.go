// Package apiclient talks to the remote candle-shop REST API. Every call is
// JSON over HTTP with an optional bearer token.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	applog "wickandwax/internal/log"
)

// ReadCache stores raw response bodies of public GETs. A nil cache disables caching.
type ReadCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

type Client struct {
	base  string
	http  *http.Client
	cache ReadCache
	group singleflight.Group
}

func New(baseURL string, timeout time.Duration, cache ReadCache) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		cache: cache,
	}
}

// CacheKey is the cache key a public GET of path is stored under.
func CacheKey(path string) string { return "api:GET:" + path }

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (c *Client) send(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encode %s: %w", path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		applog.Upstream(method, path, 0, time.Since(start), err)
		return nil, fmt.Errorf("apiclient: %s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		applog.Upstream(method, path, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("apiclient: read %s: %w: %v", path, ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}
		var env envelope
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Message = env.Message
			if apiErr.Message == "" {
				apiErr.Message = env.Error
			}
		}
		applog.Upstream(method, path, resp.StatusCode, time.Since(start), apiErr)
		return nil, apiErr
	}
	applog.Upstream(method, path, resp.StatusCode, time.Since(start), nil)
	return raw, nil
}

// decode accepts either a bare JSON value or one wrapped as {"data": ...}.
func decode(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err == nil {
			if d, ok := fields["data"]; ok {
				if string(bytes.TrimSpace(d)) == "null" {
					return nil
				}
				trimmed = d
			}
		}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("apiclient: decode: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	raw, err := c.send(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// get coalesces identical in-flight GETs. Public GETs (cacheable) also go
// through the read cache. The shared request runs detached from any one
// caller's cancellation and is bounded by the client timeout; a caller that
// gives up returns its own context error while the others keep waiting.
func (c *Client) get(ctx context.Context, path, token string, cacheable bool, out any) error {
	key := CacheKey(path)
	if cacheable && c.cache != nil {
		if raw, ok := c.cache.Get(ctx, key); ok {
			return decode(raw, out)
		}
	}
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(token+"|"+path, func() (any, error) {
		return c.send(shared, http.MethodGet, path, token, nil)
	})
	var raw []byte
	select {
	case <-ctx.Done():
		return fmt.Errorf("apiclient: GET %s: %w", path, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		raw = res.Val.([]byte)
	}
	if cacheable && c.cache != nil {
		c.cache.Set(ctx, key, raw)
	}
	return decode(raw, out)
}

func esc(s string) string { return url.PathEscape(s) }

// IsAuthFailure reports whether err means the stored credentials are no good.
func IsAuthFailure(err error) bool { return errors.Is(err, ErrUnauthorized) }
