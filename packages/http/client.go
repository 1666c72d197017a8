package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
)

const (
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

type Client struct {
	httpClient     *http.Client
	transport      http.RoundTripper
	timeout        time.Duration
	validateSSL    bool
	proxyURL       string
	defaultHeaders map[string]string
}

type ClientOption func(*Client)

// NewClient builds a client. Without WithTimeout requests have no
// deadline beyond what the transport enforces.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		validateSSL:    true,
		defaultHeaders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		transport := &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			MaxIdleConns:    DefaultMaxIdleConns,
			IdleConnTimeout: DefaultIdleConnTimeout,
		}

		if !c.validateSSL {
			transport.TLSClientConfig = &tls.Config{
				InsecureSkipVerify: true,
			}
		}

		if c.proxyURL != "" {
			proxyURL, err := neturl.Parse(c.proxyURL)
			if err != nil || proxyURL.Host == "" {
				return nil, errs.Config("configure client", c.proxyURL, "invalid proxy URL")
			}
			transport.Proxy = http.ProxyURL(proxyURL)
		}
		c.transport = transport
	}

	c.httpClient = &http.Client{
		Transport: c.transport,
		Timeout:   c.timeout,
	}

	return c, nil
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithDefaultHeaders sets headers sent with every request unless the
// request overrides them
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithTransport replaces the round tripper; proxy and TLS options are
// ignored when set.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// Do sends req and reads the whole response. Any failure to exchange the
// request is returned as *errs.TransportError; non-2xx statuses are not
// errors.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if !req.Method.Valid() {
		return nil, errs.Config("send request", req.URL, "unsupported method %s", req.Method)
	}

	var body io.Reader
	if req.hasBody() {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method.String(), req.URL, body)
	if err != nil {
		return nil, errs.Config("build request", req.URL, "%v", err)
	}

	for k, v := range c.defaultHeaders {
		httpReq.Header.Set(k, v)
	}
	if req.hasBody() {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.BasicAuth != nil {
		httpReq.SetBasicAuth(req.BasicAuth.Username, req.BasicAuth.Password)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &errs.TransportError{Method: req.Method.String(), URL: req.URL, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	duration := time.Since(start)
	if err != nil {
		return nil, &errs.TransportError{
			Method: req.Method.String(),
			URL:    req.URL,
			Err:    fmt.Errorf("reading response body: %w", err),
		}
	}

	headers := make(map[string]string, len(httpResp.Header))
	for k, values := range httpResp.Header {
		headers[k] = strings.Join(values, ", ")
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    headers,
		Body:       respBody,
		Duration:   duration,
	}, nil
}
