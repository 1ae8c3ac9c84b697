// Package web talks to the management API of the scheduler over HTTP.
//
// Every call answers with an envelope whose code is zero on success. A
// transport failure, a non-2xx status or a non-zero code is returned as
// an error, and nothing is retried.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caesium-cloud/dolphin/pkg/env"
	"github.com/caesium-cloud/dolphin/pkg/log"
	"github.com/pkg/errors"
)

const defaultPort = "12345"

// Config captures what the client needs to reach the API.
type Config struct {
	BaseURL     *url.URL
	Token       string
	HTTPTimeout time.Duration
}

// ConfigFromEnv builds a Config from the processed environment. A base
// URL without a scheme gets http://, and one without a port gets the
// API's default port.
func ConfigFromEnv() (*Config, error) {
	vars := env.Variables()

	u, err := normalizeBaseURL(vars.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := vars.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Config{
		BaseURL:     u,
		Token:       vars.Token,
		HTTPTimeout: timeout,
	}, nil
}

func normalizeBaseURL(raw string) (*url.URL, error) {
	baseURL := strings.TrimSpace(raw)
	if baseURL == "" {
		baseURL = "http://127.0.0.1:" + defaultPort
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base url %q", raw)
	}
	if u.Port() == "" && u.Path == "" {
		u.Host += ":" + defaultPort
	}
	return u, nil
}

// Envelope is the common response body of every endpoint.
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// APIError reports a call the API did not accept: either the HTTP status
// was not 2xx, in which case Code is zero, or the envelope carried a
// non-zero code.
type APIError struct {
	Method   string
	Endpoint string
	Params   url.Values
	Status   int
	Code     int
	Msg      string
	Body     string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s %s failed: code=%d msg=%q params=%s", e.Method, e.Endpoint, e.Code, e.Msg, e.Params.Encode())
	}
	return fmt.Sprintf("%s %s failed: status=%d body=%q params=%s", e.Method, e.Endpoint, e.Status, e.Body, e.Params.Encode())
}

// Client issues authenticated requests against the API root.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default client, whose timeout comes from
// Config.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// NewClient constructs a client from the provided configuration.
func NewClient(cfg *Config, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) resolve(path string) string {
	return strings.TrimSuffix(c.baseURL.String(), "/") + "/" + strings.TrimPrefix(path, "/")
}

// Get sends query as URL parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, query)
}

// Post sends form as an urlencoded body.
func (c *Client) Post(ctx context.Context, path string, form url.Values) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, form)
}

// Put sends form as an urlencoded body.
func (c *Client) Put(ctx context.Context, path string, form url.Values) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, form)
}

func (c *Client) do(ctx context.Context, method, path string, values url.Values) (*Envelope, error) {
	target := c.resolve(path)

	var body io.Reader
	if method == http.MethodGet {
		if len(values) > 0 {
			target += "?" + values.Encode()
		}
	} else {
		body = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	log.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s failed", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s %s response", method, path)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			Method:   method,
			Endpoint: path,
			Params:   values,
			Status:   resp.StatusCode,
			Body:     string(raw),
		}
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s %s response", method, path)
	}
	return &envelope, nil
}
