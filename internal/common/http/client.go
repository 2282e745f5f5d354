// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"serper-client/internal/common/metrics"
	serrors "serper-client/pkg/errors"
)

const (
	HeaderAPIKey      = "X-API-KEY"
	HeaderContentType = "Content-Type"
	HeaderUserAgent   = "User-Agent"
	ContentTypeJSON   = "application/json"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportConfig is the per-transport request policy.
type TransportConfig struct {
	Timeout        time.Duration
	DefaultHeaders map[string]string
	UserAgent      string
}

func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Timeout:        30 * time.Second,
		DefaultHeaders: map[string]string{},
		UserAgent:      "serper-sdk",
	}
}

func (c TransportConfig) clone() TransportConfig {
	headers := make(map[string]string, len(c.DefaultHeaders))
	for k, v := range c.DefaultHeaders {
		headers[k] = v
	}
	c.DefaultHeaders = headers
	return c
}

// Transport sends authenticated JSON requests and maps non-2xx statuses to
// API errors. It never retries.
type Transport struct {
	client Doer
	config TransportConfig
}

type TransportOption func(*Transport)

// WithDoer replaces the underlying HTTP client.
func WithDoer(d Doer) TransportOption {
	return func(t *Transport) {
		t.client = d
	}
}

// WithRoundTripper keeps the default client but swaps its transport.
func WithRoundTripper(rt http.RoundTripper) TransportOption {
	return func(t *Transport) {
		if hc, ok := t.client.(*http.Client); ok {
			hc.Transport = rt
		}
	}
}

func NewTransport(cfg TransportConfig, opts ...TransportOption) *Transport {
	t := &Transport{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg.clone(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns a copy of the transport configuration.
func (t *Transport) Config() TransportConfig {
	return t.config.clone()
}

// Clone returns an independent transport with a copied configuration. A
// default *http.Client is rebuilt around the same connection pool; any other
// Doer is shared and must be safe for concurrent use.
func (t *Transport) Clone() *Transport {
	c := &Transport{config: t.config.clone(), client: t.client}
	if hc, ok := t.client.(*http.Client); ok {
		c.client = &http.Client{
			Transport:     hc.Transport,
			CheckRedirect: hc.CheckRedirect,
			Jar:           hc.Jar,
			Timeout:       hc.Timeout,
		}
	}
	return c
}

// PostJSON serializes body and posts it to url with the API key header.
func (t *Transport) PostJSON(ctx context.Context, url, apiKey string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, serrors.NewParseError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, serrors.NewTransportError(err)
	}
	t.applyHeaders(req, apiKey)
	req.Header.Set(HeaderContentType, ContentTypeJSON)

	return t.do(req)
}

// applyHeaders sets the auth and user agent headers and merges the default
// headers. A configured Content-Type is skipped since JSON bodies set their own.
func (t *Transport) applyHeaders(req *http.Request, apiKey string) {
	for k, v := range t.config.DefaultHeaders {
		if http.CanonicalHeaderKey(k) == HeaderContentType {
			continue
		}
		req.Header.Set(k, v)
	}
	req.Header.Set(HeaderAPIKey, apiKey)
	if t.config.UserAgent != "" {
		req.Header.Set(HeaderUserAgent, t.config.UserAgent)
	}
}

func (t *Transport) do(req *http.Request) (*http.Response, error) {
	metrics.HTTPRequestsInFlight.Inc()
	defer metrics.HTTPRequestsInFlight.Dec()

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		metrics.ObserveRequest(req.Method, 0, time.Since(start))
		metrics.ObserveError(req.Method, string(serrors.ErrCodeTransport))
		return nil, serrors.NewTransportError(err)
	}
	metrics.ObserveRequest(req.Method, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		metrics.ObserveError(req.Method, string(serrors.ErrCodeAPI))
		return nil, serrors.NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return resp, nil
}

// ReadBody reads and closes the response body. A failed read is a
// transport error.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serrors.NewTransportError(err)
	}
	return data, nil
}
