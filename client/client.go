// Package client calls the Hypermedia HTTP API. Every call validates its
// input before touching the network and validates the response against the
// operation's output schema.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/seed-hypermedia/go-hmblob/api"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/cbor"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/json"
	"github.com/seed-hypermedia/go-hmblob/core/schema"
	"github.com/seed-hypermedia/go-hmblob/transport"
	thttp "github.com/seed-hypermedia/go-hmblob/transport/http"
)

var log = logging.Logger("hmblob/client")

// DefaultBaseURL is the server used when no base URL is configured.
const DefaultBaseURL = "https://hyper.media"

type Client struct {
	baseURL url.URL
	channel transport.Channel
	headers http.Header
	log     *logging.ZapEventLogger
}

// Option is an option configuring a client.
type Option func(cfg *clientConfig) error

type clientConfig struct {
	baseURL    url.URL
	httpClient *http.Client
	headers    http.Header
	log        *logging.ZapEventLogger
}

var baseURLReader = schema.Or(
	schema.URI(schema.WithProtocol("https:"), schema.WithHost()),
	schema.URI(schema.WithProtocol("http:"), schema.WithHost()),
)

// WithBaseURL configures the server the client talks to. Only http and https
// URLs are accepted.
func WithBaseURL(base string) Option {
	return func(cfg *clientConfig) error {
		u, f := baseURLReader.Read(base)
		if f != nil {
			return fmt.Errorf("invalid base URL %q: %w", base, f)
		}
		cfg.baseURL = u
		return nil
	}
}

// WithHTTPClient configures the HTTP client used to make requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(h http.Header) Option {
	return func(cfg *clientConfig) error {
		for k, vs := range h {
			for _, v := range vs {
				cfg.headers.Add(k, v)
			}
		}
		return nil
	}
}

func WithLogger(l *logging.ZapEventLogger) Option {
	return func(cfg *clientConfig) error {
		cfg.log = l
		return nil
	}
}

func New(options ...Option) (*Client, error) {
	base, err := url.Parse(DefaultBaseURL)
	if err != nil {
		return nil, err
	}
	cfg := clientConfig{baseURL: *base, headers: http.Header{}, log: log}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	var chanOpts []thttp.Option
	if cfg.httpClient != nil {
		chanOpts = append(chanOpts, thttp.WithClient(cfg.httpClient))
	}
	return &Client{
		baseURL: cfg.baseURL,
		channel: thttp.NewChannel(&cfg.baseURL, chanOpts...),
		headers: cfg.headers,
		log:     cfg.log,
	}, nil
}

// BaseURL returns the server the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Request runs the operation named by key. The result has the Go type of the
// operation's output, for example [api.AccountOutput] for [api.Account].
//
// Errors are one of [*ValidationError], [*NetworkError] or [*ClientError].
func (c *Client) Request(ctx context.Context, key api.Key, input any) (any, error) {
	op, ok := api.Lookup(key)
	if !ok {
		return nil, NewValidationError(key, fmt.Errorf("unknown operation"))
	}
	in, f := op.Input.Read(input)
	if f != nil {
		return nil, NewValidationError(key, f)
	}
	req, err := c.newRequest(op, in)
	if err != nil {
		return nil, NewValidationError(key, err)
	}

	start := time.Now()
	c.log.Debugw("request", "op", key, "method", req.Method(), "target", req.Target())
	res, err := c.channel.Request(ctx, req)
	if err != nil {
		var herr transport.HTTPError
		if errors.As(err, &herr) {
			c.log.Warnw("request failed", "op", key, "status", herr.Status())
			return nil, NewClientError(key, herr.Status(), string(herr.Body()))
		}
		c.log.Warnw("request failed", "op", key, "error", err)
		return nil, NewNetworkError(key, err)
	}
	defer res.Body().Close()

	nd, err := api.Unwrap(res.Body())
	if err != nil {
		c.log.Warnw("invalid response", "op", key, "error", err)
		return nil, NewValidationError(key, fmt.Errorf("reading response: %w", err))
	}
	out, f := op.Output.Read(nd)
	if f != nil {
		c.log.Warnw("invalid response", "op", key, "error", f)
		return nil, NewValidationError(key, f)
	}
	c.log.Debugw("response", "op", key, "status", res.Status(), "elapsed", time.Since(start))
	return out, nil
}

func (c *Client) newRequest(op api.Operation, in any) (*thttp.Request, error) {
	hdrs := c.headers.Clone()
	hdrs.Set("Accept", json.ContentType)
	target := "/api/" + string(op.Key)

	if op.Method == http.MethodPost {
		pub, ok := in.(api.PublishBlobsInput)
		if !ok {
			return nil, fmt.Errorf("unexpected %s input: %T", op.Key, in)
		}
		body, err := api.EncodePublishBlobs(pub)
		if err != nil {
			return nil, fmt.Errorf("encoding body: %w", err)
		}
		hdrs.Set("Content-Type", cbor.ContentType)
		return thttp.NewRequest(http.MethodPost, target, bytes.NewReader(body), hdrs), nil
	}

	query, err := op.Query(in)
	if err != nil {
		return nil, fmt.Errorf("serializing query: %w", err)
	}
	return thttp.NewRequest(op.Method, target+query, nil, hdrs), nil
}
