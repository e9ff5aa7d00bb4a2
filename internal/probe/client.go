// Package probe sends diagnostic GET requests to the catalog API and
// prints what comes back.
package probe

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovoapp/catalog-probe/internal/logger"
)

// Defaults shared by every probe.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultUserAgent   = "OVO-Test-Client/1.0"
	DefaultRoutePrefix = "/api/v1"
)

// Client issues single GET requests against the catalog API.
// It never retries; every call either returns a response or an error
// within the configured timeout.
type Client struct {
	http        *resty.Client
	baseURL     string
	routePrefix string
	logger      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.http.SetHeader("User-Agent", ua)
	}
}

// WithRoutePrefix sets the prefix placed in the s= routing parameter.
func WithRoutePrefix(prefix string) Option {
	return func(c *Client) {
		c.routePrefix = prefix
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the API entry point at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetTimeout(DefaultTimeout).
			SetRetryCount(0).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", DefaultUserAgent),
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		routePrefix: DefaultRoutePrefix,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the API entry point.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is what came back from one probe.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
	RequestID  string
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// RouteParams builds the query for the s=<prefix><path> routing
// convention. extra keys are merged in and win over s.
func (c *Client) RouteParams(path string, extra map[string]string) map[string]string {
	params := map[string]string{"s": c.routePrefix + path}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

// Routed requests path through the entry point's s= parameter.
func (c *Client) Routed(ctx context.Context, path string, extra map[string]string) (*Response, error) {
	return c.Get(ctx, c.baseURL, c.RouteParams(path, extra))
}

// Get sends GET rawURL?params. Non-2xx statuses are returned as
// responses, not errors; only transport failures produce an error.
func (c *Client) Get(ctx context.Context, rawURL string, params map[string]string) (*Response, error) {
	requestID := uuid.NewString()
	ctx = logger.WithRequestID(ctx, requestID)
	log := logger.FromContext(ctx, c.logger)

	fullURL := BuildURL(rawURL, params)
	log.Debug("sending probe", zap.String("url", fullURL))

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetQueryParams(params).
		Get(rawURL)
	if err != nil {
		log.Warn("probe failed", zap.String("url", fullURL), zap.Error(err))
		return nil, err
	}

	log.Debug("probe answered",
		zap.String("url", fullURL),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()),
		zap.Int("bytes", len(resp.Body())),
	)

	return &Response{
		URL:        fullURL,
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		Duration:   resp.Time(),
		RequestID:  requestID,
	}, nil
}

// BuildURL appends params to rawURL as an encoded query string.
func BuildURL(rawURL string, params map[string]string) string {
	if len(params) == 0 {
		return rawURL
	}
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + q.Encode()
}
