package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/seed-hypermedia/go-hmblob/transport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// MaxErrorBodySize bounds how much of an unsuccessful response body is kept.
var MaxErrorBodySize int64 = 64 << 10

// Option is an option configuring a HTTP channel.
type Option func(cfg *chanConfig)

type chanConfig struct {
	client   *http.Client
	statuses []int
}

// WithClient configures the HTTP client the channel should use to make
// requests.
func WithClient(c *http.Client) Option {
	return func(cfg *chanConfig) {
		cfg.client = c
	}
}

// WithSuccessStatusCode configures the HTTP status code(s) that will indicate a
// successful request. By default any 2xx status does.
func WithSuccessStatusCode(codes ...int) Option {
	return func(cfg *chanConfig) {
		cfg.statuses = codes
	}
}

type channel struct {
	base     string
	client   *http.Client
	statuses []int
}

func (c *channel) success(status int) bool {
	if len(c.statuses) == 0 {
		return status >= 200 && status < 300
	}
	return slices.Contains(c.statuses, status)
}

func (c *channel) Request(ctx context.Context, req transport.HTTPRequest) (transport.HTTPResponse, error) {
	target := c.base + req.Target()
	body := req.Body()
	if body == nil {
		body = http.NoBody
	}
	hr, err := http.NewRequestWithContext(ctx, req.Method(), target, body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	hr.Header = req.Headers().Clone()
	if hr.Header == nil {
		hr.Header = http.Header{}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(hr.Header))

	res, err := c.client.Do(hr)
	if err != nil {
		return nil, fmt.Errorf("doing HTTP request: %w", err)
	}
	if !c.success(res.StatusCode) {
		defer res.Body.Close()
		// The body is informational only, a read failure leaves it empty.
		data, err := io.ReadAll(io.LimitReader(res.Body, MaxErrorBodySize))
		if err != nil {
			data = nil
		}
		return nil, NewHTTPError(fmt.Sprintf("HTTP Request failed. %s %s → %d", hr.Method, target, res.StatusCode), res.StatusCode, res.Header, data)
	}

	resCtx := otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(res.Header))
	return NewResponseWithContext(resCtx, res.StatusCode, res.Body, res.Header), nil
}

// NewChannel creates a channel sending requests to targets under base.
func NewChannel(base *url.URL, options ...Option) transport.Channel {
	cfg := chanConfig{}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{}
	}
	return &channel{
		base:     strings.TrimSuffix(base.String(), "/"),
		client:   cfg.client,
		statuses: cfg.statuses,
	}
}
