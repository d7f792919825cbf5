// Package comlink is a client for the Comlink game data HTTP API.
//
// A Client is bound to one normalized base URL for its whole lifetime and
// owns the underlying HTTP transport until Close is called. Every endpoint
// method builds a typed payload, posts it wrapped in the
// {"payload": ..., "enums": ...} envelope and returns the decoded JSON
// object unchanged. Methods are safe for concurrent use.
package comlink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/comlink-go/pkg/httpclient"
)

// Response is a decoded Comlink response. Numbers are kept as json.Number.
type Response map[string]any

// Options configures a Client. Host and Port take precedence over URL.
type Options struct {
	URL  string
	Host string
	Port int

	// Timeout bounds every request made by the default transport; zero
	// leaves deadlines to the caller's context.
	Timeout time.Duration
	// HTTPClient replaces the default resty transport.
	HTTPClient httpclient.Client
	Logger     Logger
}

// Client talks to a single Comlink instance.
type Client struct {
	baseURL string
	http    httpclient.Client
	log     Logger
	closed  atomic.Bool
}

// envelope is the request body shape shared by every POST endpoint.
type envelope struct {
	Payload any  `json:"payload"`
	Enums   bool `json:"enums"`
}

// New normalizes the base URL and opens the transport.
func New(opts Options) (*Client, error) {
	baseURL, err := NormalizeBaseURL(opts.URL, opts.Host, opts.Port)
	if err != nil {
		return nil, err
	}

	transport := opts.HTTPClient
	if transport == nil {
		transport = httpclient.NewRestyClient(opts.Timeout)
	}

	return &Client{
		baseURL: baseURL,
		http:    transport,
		log:     ensureLogger(opts.Logger),
	}, nil
}

// BaseURL returns the normalized scheme://host:port the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases the transport. Calling it more than once is a no-op.
func (c *Client) Close() error {
	if c == nil || c.closed.Swap(true) {
		return nil
	}
	c.http.Close()
	return nil
}

// Post sends payload to endpoint inside the request envelope and decodes the reply.
func (c *Client) Post(ctx context.Context, endpoint string, payload any, enums bool) (Response, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = struct{}{}
	}

	start := time.Now()
	resp, err := c.http.Post(ctx, c.url(endpoint), envelope{Payload: payload, Enums: enums}, nil)
	return c.finish(http.MethodPost, endpoint, start, resp, err)
}

// Get issues a body-less GET to endpoint and decodes the reply.
func (c *Client) Get(ctx context.Context, endpoint string) (Response, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Get(ctx, c.url(endpoint), map[string]string{"Accept": "application/json"})
	return c.finish(http.MethodGet, endpoint, start, resp, err)
}

func (c *Client) checkOpen() error {
	if c == nil || c.closed.Load() {
		return ErrUseAfterClose
	}
	return nil
}

func (c *Client) url(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

func (c *Client) finish(method, endpoint string, start time.Time, resp httpclient.Response, err error) (Response, error) {
	if err != nil {
		return nil, &RequestError{Method: method, Endpoint: endpoint, Err: err}
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &RequestError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: status,
			Err:        fmt.Errorf("unexpected status: %s", bodySnippet(body)),
		}
	}

	decoded, err := decodeResponse(body)
	if err != nil {
		return nil, &RequestError{Method: method, Endpoint: endpoint, StatusCode: status, Err: err}
	}

	c.log.DebugObj("comlink request completed", "comlink_request", map[string]any{
		"method":     method,
		"endpoint":   endpoint,
		"status":     status,
		"bytes":      len(body),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return decoded, nil
}

func decodeResponse(body []byte) (Response, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty response body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var out Response
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode json response: %w", err)
	}
	if out == nil {
		return nil, errors.New("response is not a json object")
	}
	return out, nil
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
