// Package gitlab is a small client for the GitLab REST API (v4): project
// listing, member and label lookup, and issue creation. It covers exactly
// the surface a bulk issue upload needs, nothing more.
package gitlab

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// apiPrefix is appended to the instance URL; every endpoint lives under it.
const apiPrefix = "/api/v4"

// Options configures the client transport.
type Options struct {
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate checks, for instances
	// running on self-signed certificates.
	InsecureSkipVerify bool
}

// DefaultOptions returns the standard transport settings: a 30 second
// timeout with TLS verification on.
func DefaultOptions() *Options {
	return &Options{Timeout: DefaultTimeout}
}

// APIError represents a failed API call.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gitlab: %s %s: %s (HTTP %d)", e.Method, e.Path, e.Message, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("gitlab: %s %s: %s: %v", e.Method, e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("gitlab: %s %s: %s", e.Method, e.Path, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Client talks to one GitLab instance with one access token. It is safe for
// concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a client for the instance at baseURL (scheme and host
// only, no API suffix), authenticating every request with a personal access
// token.
func NewClient(baseURL, token string, opts *Options, logger *zap.Logger) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + apiPrefix,
		token:   token,
		http:    httpClient,
		log:     logger,
	}
}

// do sends one request and, when out is non-nil, decodes the JSON response
// into it. Every endpoint goes through here so authentication and error
// handling stay in one place.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	url := c.baseURL + "/" + strings.TrimPrefix(path, "/")

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &APIError{Method: method, Path: path, Message: "could not encode request body", Cause: err}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return &APIError{Method: method, Path: path, Message: "could not create request", Cause: err}
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("sending request", zap.String("method", method), zap.String("url", url))
	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Method: method, Path: path, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()
	c.log.Debug("received response",
		zap.String("method", method), zap.String("url", url), zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		message := strings.TrimSpace(string(detail))
		if message == "" {
			message = "request was not successful"
		}
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Method: method, Path: path, Message: "could not decode response", Cause: err}
	}
	return nil
}
