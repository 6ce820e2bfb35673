// Package client is the HTTP transport used by the resource stores. It keeps
// the session and anti-forgery cookies and resolves every HTTP status as a
// Response so callers can tell API errors from transport failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	csrfCookie      = "XSRF-TOKEN"
	csrfHeader      = "XSRF-Token"
	csrfRestorePath = "/api/csrf/restore"
)

type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
		logger:  logger,
	}, nil
}

type request struct {
	contentType string
	header      http.Header
}

// Option customises a single request.
type Option func(*request)

// WithContentType sends body as a raw io.Reader with the given content type
// instead of encoding it as JSON.
func WithContentType(contentType string) Option {
	return func(r *request) { r.contentType = contentType }
}

func WithHeader(key, value string) Option {
	return func(r *request) { r.header.Set(key, value) }
}

// Fetch sends a request to path relative to the base URL. Any HTTP status
// resolves with a Response; only transport faults return an error, of type
// *TransportError. State-changing methods carry the anti-forgery header,
// restoring the token from the API first when no cookie is held.
func (c *Client) Fetch(ctx context.Context, method, path string, body any, opts ...Option) (*Response, error) {
	req := &request{header: http.Header{}}
	for _, opt := range opts {
		opt(req)
	}

	reader, contentType, err := encodeBody(body, req.contentType)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	for k, v := range req.header {
		httpReq.Header[k] = v
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if mutates(method) {
		token, rejected, err := c.csrfToken(ctx)
		if err != nil {
			return nil, &TransportError{Method: method, Path: path, Err: err}
		}
		if rejected != nil {
			return rejected, nil
		}
		httpReq.Header.Set(csrfHeader, token)
	}

	return c.send(httpReq)
}

// Do fetches and decodes a successful JSON response into out, which may be
// nil. A non-2xx response is returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...Option) error {
	resp, err := c.Fetch(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return resp.APIError()
	}
	if out == nil {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// Cookie returns the value of a cookie held for the API, or "".
func (c *Client) Cookie(name string) string {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) send(req *http.Request) (*Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, &TransportError{Method: req.Method, Path: req.URL.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: req.URL.Path, Err: err}
	}

	c.logger.Debug("request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// csrfToken returns the anti-forgery token from the cookie jar, fetching a
// fresh one when none is held. A non-2xx restore response is returned as
// rejected so callers surface it like any other API answer.
func (c *Client) csrfToken(ctx context.Context) (token string, rejected *Response, err error) {
	if token := c.Cookie(csrfCookie); token != "" {
		return token, nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(csrfRestorePath), nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return "", nil, err
	}
	if !resp.OK() {
		return "", resp, nil
	}

	if token := c.Cookie(csrfCookie); token != "" {
		return token, nil, nil
	}
	var body map[string]string
	if err := resp.Decode(&body); err != nil || body[csrfHeader] == "" {
		return "", nil, fmt.Errorf("csrf token missing from restore response")
	}
	return body[csrfHeader], nil, nil
}

func (c *Client) resolve(path string) string {
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

func mutates(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func encodeBody(body any, contentType string) (io.Reader, string, error) {
	if body == nil {
		return nil, contentType, nil
	}
	if contentType != "" {
		r, ok := body.(io.Reader)
		if !ok {
			return nil, "", fmt.Errorf("body must be an io.Reader when a content type is set")
		}
		return r, contentType, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}
